// Package risk computes the five-factor bubble risk score.
package risk

// Fundamentals feeds the fundamental divergence factor.
type Fundamentals struct {
	FCFMargin     float64 `json:"fcfMargin"`
	RevenueGrowth float64 `json:"revenueGrowth"`
	PriceChange   float64 `json:"priceChange"`
}

// Valuation feeds the valuation stretch factor.
type Valuation struct {
	PERatio      float64 `json:"peRatio"`
	PriceToSales float64 `json:"priceToSales"`
}

// Leverage feeds the leverage stress factor.
type Leverage struct {
	CreditSpreads float64 `json:"creditSpreads"`
	Breadth       float64 `json:"breadth"`
}

// Options feeds the options euphoria factor.
type Options struct {
	IVLevel float64 `json:"ivLevel"`
	Skew    float64 `json:"skew"`
}

// Sentiment feeds the sentiment crowding factor.
type Sentiment struct {
	News   float64 `json:"news"`
	Social float64 `json:"social"`
}

// Inputs holds every market reading the score depends on.
type Inputs struct {
	Fundamentals Fundamentals `json:"fundamentals"`
	Valuation    Valuation    `json:"valuation"`
	Leverage     Leverage     `json:"leverage"`
	Options      Options      `json:"options"`
	Sentiment    Sentiment    `json:"sentiment"`
}

// Baseline returns the reference readings used when no live value exists.
func Baseline() Inputs {
	return Inputs{
		Fundamentals: Fundamentals{FCFMargin: -0.02, RevenueGrowth: 0.15, PriceChange: 0.25},
		Valuation:    Valuation{PERatio: 65, PriceToSales: 25},
		Leverage:     Leverage{CreditSpreads: 2.5, Breadth: 0.25},
		Options:      Options{IVLevel: 0.18, Skew: 0.12},
		Sentiment:    Sentiment{News: 0.85, Social: 0.92},
	}
}

// Factor is one scored component of the report.
type Factor struct {
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	Weight   int      `json:"weight"` // percent
	Weighted float64  `json:"weighted"`
	Triggers []string `json:"triggers"`
}

// Level buckets the overall score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Report is the outcome of Evaluate.
type Report struct {
	Score   int      `json:"score"`
	Level   Level    `json:"level"`
	Factors []Factor `json:"factors"`
}

// Weights in percent; they sum to 100.
const (
	WeightFundamentals = 30
	WeightValuation    = 25
	WeightLeverage     = 20
	WeightOptions      = 15
	WeightSentiment    = 10
)

// Evaluate scores every factor, caps each at 100, and truncates the
// weighted sum to an integer capped at 100.
func Evaluate(in Inputs) Report {
	factors := []Factor{
		fundamentalDivergence(in.Fundamentals),
		valuationStretch(in.Valuation),
		leverageStress(in.Leverage),
		optionsEuphoria(in.Options),
		sentimentCrowding(in.Sentiment),
	}

	// integer percent keeps the sum exact before truncation
	var total int
	for i := range factors {
		f := &factors[i]
		total += f.Score * f.Weight
		f.Weighted = float64(f.Score*f.Weight) / 100
	}
	score := min(100, total/100)

	return Report{Score: score, Level: levelFor(score), Factors: factors}
}

func levelFor(score int) Level {
	switch {
	case score > 75:
		return LevelHigh
	case score > 55:
		return LevelMedium
	default:
		return LevelLow
	}
}

// rule adds points when cond holds.
type rule struct {
	cond   bool
	points int
	name   string
}

func scoreFactor(name string, weight int, rules ...rule) Factor {
	f := Factor{Name: name, Weight: weight, Triggers: []string{}}
	for _, r := range rules {
		if r.cond {
			f.Score += r.points
			f.Triggers = append(f.Triggers, r.name)
		}
	}
	f.Score = min(f.Score, 100)
	return f
}

func fundamentalDivergence(in Fundamentals) Factor {
	return scoreFactor("fundamental_divergence", WeightFundamentals,
		rule{in.FCFMargin < 0, 30, "negative free cash flow margin"},
		rule{in.RevenueGrowth < 0.1 && in.PriceChange > 0.2, 25, "price outrunning revenue growth"},
	)
}

func valuationStretch(in Valuation) Factor {
	return scoreFactor("valuation_stretch", WeightValuation,
		rule{in.PERatio > 50, 30, "P/E above 50"},
		rule{in.PriceToSales > 20, 25, "P/S above 20"},
	)
}

func leverageStress(in Leverage) Factor {
	return scoreFactor("leverage_stress", WeightLeverage,
		rule{in.CreditSpreads > 2, 30, "credit spreads above 2"},
		rule{in.Breadth < 0.3, 25, "narrow market breadth"},
	)
}

func optionsEuphoria(in Options) Factor {
	return scoreFactor("options_euphoria", WeightOptions,
		rule{in.IVLevel < 0.2, 30, "implied volatility below 0.2"},
		rule{in.Skew > 0.1, 25, "call skew above 0.1"},
	)
}

func sentimentCrowding(in Sentiment) Factor {
	return scoreFactor("sentiment_crowding", WeightSentiment,
		rule{in.News > 0.8, 20, "news sentiment above 0.8"},
		rule{in.Social > 0.9, 20, "social sentiment above 0.9"},
	)
}
