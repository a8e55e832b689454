package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"bubbledash/internal/provider"
)

// DefaultSeriesFunction is used when TimeSeries is called without a function.
const DefaultSeriesFunction = "TIME_SERIES_DAILY"

// seriesMarker identifies the envelope key of every time series function:
// "Time Series (Daily)", "Weekly Time Series", "Time Series (5min)", ...
const seriesMarker = "Time Series"

// TimeSeries retrieves the historical series produced by function
// (TIME_SERIES_DAILY, TIME_SERIES_WEEKLY, ...) for symbol.
//
// The envelope key differs per function, so the first top-level key in
// document order containing "Time Series" is unwrapped. The payload under it
// is returned verbatim. No matching key returns nil, nil.
func (c *Client) TimeSeries(ctx context.Context, symbol, function string) (*provider.HistoricalSeries, error) {
	if function == "" {
		function = DefaultSeriesFunction
	}

	body := orderedmap.New[string, json.RawMessage]()
	if err := c.get(ctx, "time series", function, symbol, body); err != nil {
		return nil, err
	}

	envelope, raw, ok := FindEnvelope(body, seriesMarker)
	if !ok {
		return nil, nil
	}

	points := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, points); err != nil {
		return nil, &provider.FetchError{Provider: provider.AlphaVantage, Op: "time series", Err: fmt.Errorf("decoding %q: %w", envelope, err)}
	}

	return &provider.HistoricalSeries{Envelope: envelope, Points: points}, nil
}

// FindEnvelope returns the first key of body, in insertion order, that
// contains marker, together with its value.
func FindEnvelope(body *orderedmap.OrderedMap[string, json.RawMessage], marker string) (string, json.RawMessage, bool) {
	for pair := body.Oldest(); pair != nil; pair = pair.Next() {
		if strings.Contains(pair.Key, marker) {
			if isJSONNull(pair.Value) {
				return "", nil, false
			}
			return pair.Key, pair.Value, true
		}
	}
	return "", nil, false
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}
