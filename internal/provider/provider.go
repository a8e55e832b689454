package provider

import (
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Provider names as used by the credential store and persisted settings.
const (
	AlphaVantage = "alphaVantage"
	NewsData     = "newsData"
)

// Quote is the normalized real-time quote for one ticker symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent string  `json:"changePercent"`
	Volume        int64   `json:"volume"`
}

// HistoricalSeries is the payload found under a provider's time series
// envelope key, kept verbatim and in provider order.
type HistoricalSeries struct {
	Envelope string
	Points   *orderedmap.OrderedMap[string, json.RawMessage]
}

// MarshalJSON encodes only the points, preserving their order.
func (s *HistoricalSeries) MarshalJSON() ([]byte, error) {
	if s == nil || s.Points == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.Points)
}

// Len returns the number of dated points in the series.
func (s *HistoricalSeries) Len() int {
	if s == nil || s.Points == nil {
		return 0
	}
	return s.Points.Len()
}

// Candle is one OHLCV row parsed out of a HistoricalSeries.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Candles parses the "1. open" .. "5. volume" fields of each point. Points
// that are not JSON objects are skipped; fields that do not parse are 0.
func (s *HistoricalSeries) Candles() []Candle {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Candle, 0, s.Points.Len())
	for pair := s.Points.Oldest(); pair != nil; pair = pair.Next() {
		var fields map[string]any
		if err := json.Unmarshal(pair.Value, &fields); err != nil {
			continue
		}
		out = append(out, Candle{
			Date:   pair.Key,
			Open:   FloatField(fields, "1. open"),
			High:   FloatField(fields, "2. high"),
			Low:    FloatField(fields, "3. low"),
			Close:  FloatField(fields, "4. close"),
			Volume: IntField(fields, "5. volume"),
		})
	}
	return out
}

// Fundamentals holds valuation metrics. Missing or unparsable metrics are 0.
type Fundamentals struct {
	PERatio      float64 `json:"peRatio"`
	PriceToBook  float64 `json:"priceToBook"`
	ROE          float64 `json:"roe"`
	ProfitMargin float64 `json:"profitMargin"`
	MarketCap    float64 `json:"marketCap"`
}

// Article is a news article with its keyword sentiment.
type Article struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Sentiment   float64 `json:"sentiment"`
	Source      string  `json:"source"`
	PublishedAt string  `json:"publishedAt"`
	URL         string  `json:"url"`
}

// NewsSummary aggregates per-article sentiment for one query.
type NewsSummary struct {
	Sentiment    float64   `json:"sentiment"`
	Intensity    float64   `json:"intensity"`
	ArticleCount int       `json:"articleCount"`
	Articles     []Article `json:"articles"`
}

// Origin tells a caller whether a NewsSummary came from the provider or is
// a placeholder.
type Origin string

const (
	OriginLive   Origin = "live"
	OriginMocked Origin = "mocked"
	OriginFailed Origin = "failed"
)

// NewsResult is a NewsSummary tagged with where it came from. Err is set
// when the provider call failed, whether or not a mock replaced it.
type NewsResult struct {
	Summary NewsSummary
	Origin  Origin
	Err     error
}

// FetchError reports a transport failure or an undecodable response body.
type FetchError struct {
	Provider string
	Op       string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FloatField reads key from a decoded JSON object as a float. Strings are
// parsed leniently (see ParseLeadingFloat); anything else yields 0.
func FloatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case string:
		return ParseLeadingFloat(v)
	case float64:
		return finite(v)
	case json.Number:
		return ParseLeadingFloat(v.String())
	}
	return 0
}

// IntField reads key from a decoded JSON object as an integer, truncating
// any fractional part.
func IntField(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case string:
		return ParseLeadingInt(v)
	case float64:
		return int64(finite(v))
	case json.Number:
		return ParseLeadingInt(v.String())
	}
	return 0
}

// StringField reads key from a decoded JSON object as a string. Numbers are
// formatted without trailing zeros.
func StringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}
