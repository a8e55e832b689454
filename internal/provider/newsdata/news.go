package newsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"bubbledash/internal/provider"
)

// Article is one entry of the provider's results array. Fields the provider
// sends as null decode to "".
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceID    string `json:"source_id"`
	PubDate     string `json:"pubDate"`
	Link        string `json:"link"`
}

// Text is the text the sentiment heuristic reads: title and description
// joined by a space.
func (a Article) Text() string {
	return a.Title + " " + a.Description
}

type latestNewsResponse struct {
	Status  string    `json:"status"`
	Results []Article `json:"results"`
}

// LatestNews retrieves the latest articles matching query, in provider
// order. A response without results (error status, exhausted quota) yields
// an empty slice and no error.
func (c *Client) LatestNews(ctx context.Context, query string) ([]Article, error) {
	// {
	//   "status": "success",
	//   "totalResults": 1,
	//   "results": [
	//     {"title": "...", "description": "...", "source_id": "reuters",
	//      "pubDate": "2024-07-17 12:00:00", "link": "https://..."}
	//   ]
	// }
	params := maps.Clone(c.query)
	params.Set("apikey", c.key())
	params.Set("q", query)

	u := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, &provider.FetchError{Provider: provider.NewsData, Op: "latest news", Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &provider.FetchError{Provider: provider.NewsData, Op: "latest news", Err: fmt.Errorf("performing request: %w", err)}
	}
	defer res.Body.Close()

	var body latestNewsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, &provider.FetchError{Provider: provider.NewsData, Op: "latest news", Err: fmt.Errorf("decoding response (status %d): %w", res.StatusCode, err)}
	}
	if body.Results == nil {
		return []Article{}, nil
	}
	return body.Results, nil
}
