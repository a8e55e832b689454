package alphavantage

import (
	"context"

	"bubbledash/internal/provider"
)

const globalQuoteKey = "Global Quote"

// GlobalQuote retrieves the latest quote for symbol.
//
// A response without a "Global Quote" object (rate limited, unknown symbol,
// rejected key) is not an error: it returns nil, nil.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*provider.Quote, error) {
	// {
	//   "Global Quote": {
	//     "01. symbol": "NVDA",
	//     "05. price": "131.2600",
	//     "06. volume": "45000000",
	//     "09. change": "2.3500",
	//     "10. change percent": "1.8237%"
	//   }
	// }
	var body map[string]any
	if err := c.get(ctx, "global quote", "GLOBAL_QUOTE", symbol, &body); err != nil {
		return nil, err
	}

	data, ok := body[globalQuoteKey].(map[string]any)
	if !ok || len(data) == 0 {
		return nil, nil
	}

	return &provider.Quote{
		Symbol:        symbol,
		Price:         provider.FloatField(data, "05. price"),
		Change:        provider.FloatField(data, "09. change"),
		ChangePercent: provider.StringField(data, "10. change percent"),
		Volume:        provider.IntField(data, "06. volume"),
	}, nil
}
