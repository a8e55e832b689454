package alphavantage

import (
	"context"

	"bubbledash/internal/provider"
)

// Overview retrieves company valuation metrics for symbol. Every metric the
// response lacks, or reports as "None"/"-", is 0; only a failed request or
// an undecodable body is an error.
func (c *Client) Overview(ctx context.Context, symbol string) (*provider.Fundamentals, error) {
	var body map[string]any
	if err := c.get(ctx, "overview", "OVERVIEW", symbol, &body); err != nil {
		return nil, err
	}

	return &provider.Fundamentals{
		PERatio:      provider.FloatField(body, "PERatio"),
		PriceToBook:  provider.FloatField(body, "PriceToBookRatio"),
		ROE:          provider.FloatField(body, "ReturnOnEquityTTM"),
		ProfitMargin: provider.FloatField(body, "ProfitMargin"),
		MarketCap:    provider.FloatField(body, "MarketCapitalization"),
	}, nil
}
