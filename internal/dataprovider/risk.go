package dataprovider

import (
	"context"

	"bubbledash/internal/provider"
	"bubbledash/internal/risk"
)

// RiskReport is a bubble risk score together with the inputs it was computed
// from. Live names the inputs that came from provider data; the rest are
// baseline readings.
type RiskReport struct {
	Symbol string          `json:"symbol"`
	Query  string          `json:"query"`
	Report risk.Report     `json:"report"`
	Inputs risk.Inputs     `json:"inputs"`
	Live   []string        `json:"live"`
	News   provider.Origin `json:"newsOrigin"`
}

// Risk scores symbol using live fundamentals, quote and news sentiment where
// available, falling back to baseline readings for everything else. Calls
// are made one after the other.
func (d *DataProvider) Risk(ctx context.Context, symbol, query string) RiskReport {
	in := risk.Baseline()
	var live []string

	if f := d.FetchFundamentals(ctx, symbol); f != nil {
		if f.PERatio > 0 {
			in.Valuation.PERatio = f.PERatio
			live = append(live, "valuation.peRatio")
		}
		// profit margin stands in for free cash flow margin
		if f.ProfitMargin != 0 {
			in.Fundamentals.FCFMargin = f.ProfitMargin
			live = append(live, "fundamentals.fcfMargin")
		}
	}

	if q := d.FetchQuote(ctx, symbol); q != nil && q.ChangePercent != "" {
		in.Fundamentals.PriceChange = provider.ParseLeadingFloat(q.ChangePercent) / 100
		live = append(live, "fundamentals.priceChange")
	}

	news := d.FetchNewsResult(ctx, query)
	if news.Origin == provider.OriginLive && news.Summary.ArticleCount > 0 {
		in.Sentiment.News = news.Summary.Sentiment
		live = append(live, "sentiment.news")
	}

	if live == nil {
		live = []string{}
	}
	return RiskReport{
		Symbol: symbol,
		Query:  query,
		Report: risk.Evaluate(in),
		Inputs: in,
		Live:   live,
		News:   news.Origin,
	}
}
