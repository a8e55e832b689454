// Package aggregate combines per-article sentiment into a news summary.
package aggregate

import (
	"math/rand/v2"
	"time"

	"bubbledash/internal/provider"
	"bubbledash/internal/provider/newsdata"
)

// IntensityScale is the article count that maps to an intensity of 1.
// Intensity is not clamped, so more articles push it above 1.
const IntensityScale = 50

// Scorer scores the sentiment of free text in [-1, 1].
type Scorer interface {
	Score(text string) float64
}

// Summarize scores every article and folds the scores into a NewsSummary.
// Articles keep their input order. No articles yields the zero summary with
// an empty, non-nil article list.
func Summarize(in []newsdata.Article, scorer Scorer) provider.NewsSummary {
	out := provider.NewsSummary{Articles: make([]provider.Article, 0, len(in))}
	if len(in) == 0 {
		return out
	}

	var total float64
	for _, a := range in {
		score := scorer.Score(a.Text())
		total += score
		out.Articles = append(out.Articles, provider.Article{
			Title:       a.Title,
			Description: a.Description,
			Sentiment:   score,
			Source:      a.SourceID,
			PublishedAt: a.PubDate,
			URL:         a.Link,
		})
	}

	n := len(out.Articles)
	out.ArticleCount = n
	out.Sentiment = total / float64(n)
	out.Intensity = float64(n) / IntensityScale
	return out
}

// Mock builds the placeholder summary served when the news provider cannot
// be reached. Sentiment is drawn from [-1, 1) and intensity from [0, 1);
// the two articles are fixed apart from their timestamp.
func Mock(rng *rand.Rand, now time.Time) provider.NewsSummary {
	published := now.UTC().Format(time.RFC3339)
	articles := []provider.Article{
		{
			Title:       "AI Market Shows Strong Growth Potential",
			Description: "Latest analysis indicates continued expansion in AI sector driven by increased demand.",
			Sentiment:   0.7,
			Source:      "Financial Times",
			PublishedAt: published,
			URL:         "#",
		},
		{
			Title:       "Analysts Express Concern Over AI Valuations",
			Description: "Some market experts warn that current AI stock prices may not be sustainable long-term.",
			Sentiment:   -0.3,
			Source:      "Wall Street Journal",
			PublishedAt: published,
			URL:         "#",
		},
	}
	return provider.NewsSummary{
		Sentiment:    rng.Float64()*2 - 1,
		Intensity:    rng.Float64(),
		ArticleCount: len(articles),
		Articles:     articles,
	}
}
