package dataprovider

import (
	"context"

	"bubbledash/internal/provider"
)

// Probe targets used by SelfTest.
const (
	SelfTestSymbol = "NVDA"
	SelfTestQuery  = "NVIDIA stock"
)

// SelfTestMessage is reported whatever the probe outcomes.
const SelfTestMessage = "API tests completed"

// ProbeStatus is the outcome of one provider probe.
type ProbeStatus string

const (
	ProbeOK      ProbeStatus = "ok"
	ProbeFailed  ProbeStatus = "failed"
	ProbeSkipped ProbeStatus = "skipped"
)

// ProbeResult reports one provider.
type ProbeResult struct {
	Provider string      `json:"provider"`
	Status   ProbeStatus `json:"status"`
	Detail   string      `json:"detail,omitempty"`
}

// SelfTestReport is the result of SelfTest.
type SelfTestReport struct {
	Message string        `json:"message"`
	Results []ProbeResult `json:"results"`
}

// SelfTest issues one probe per provider that has a real key: a quote for
// SelfTestSymbol and news for SelfTestQuery. Providers still on their
// sentinel are skipped. Probes run one after the other.
func (d *DataProvider) SelfTest(ctx context.Context) SelfTestReport {
	report := SelfTestReport{Message: SelfTestMessage, Results: make([]ProbeResult, 0, 2)}
	report.Results = append(report.Results, d.probeQuotes(ctx), d.probeNews(ctx))
	d.log.Info().Interface("results", report.Results).Msg(SelfTestMessage)
	return report
}

func (d *DataProvider) probeQuotes(ctx context.Context) ProbeResult {
	res := ProbeResult{Provider: provider.AlphaVantage}
	if !d.creds.Configured(provider.AlphaVantage) {
		res.Status = ProbeSkipped
		res.Detail = "no api key configured"
		return res
	}
	q := d.FetchQuote(ctx, SelfTestSymbol)
	if q == nil {
		res.Status = ProbeFailed
		res.Detail = "no quote returned for " + SelfTestSymbol
		return res
	}
	res.Status = ProbeOK
	return res
}

func (d *DataProvider) probeNews(ctx context.Context) ProbeResult {
	res := ProbeResult{Provider: provider.NewsData}
	if !d.creds.Configured(provider.NewsData) {
		res.Status = ProbeSkipped
		res.Detail = "no api key configured"
		return res
	}
	// a placeholder summary must not pass the probe
	r := d.fetchNews(ctx, SelfTestQuery, false)
	switch {
	case r.Err != nil:
		res.Status = ProbeFailed
		res.Detail = r.Err.Error()
	case r.Summary.ArticleCount == 0:
		res.Status = ProbeFailed
		res.Detail = "no articles returned for " + SelfTestQuery
	default:
		res.Status = ProbeOK
	}
	return res
}
