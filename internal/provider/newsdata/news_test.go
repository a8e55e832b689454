package newsdata_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bubbledash/internal/provider"
	"bubbledash/internal/provider/newsdata"
)

func TestLatestNews(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "news-key", req.URL.Query().Get("apikey"))
			require.Equal(t, "NVIDIA stock", req.URL.Query().Get("q"))
			return response(http.StatusOK, `{
				"status": "success",
				"totalResults": 2,
				"results": [
					{"title": "Chip demand surges", "description": "Strong quarter", "source_id": "reuters", "pubDate": "2024-07-17 12:00:00", "link": "https://example.com/a"},
					{"title": "Bubble fears", "description": null, "source_id": "ft", "pubDate": "2024-07-17 11:00:00", "link": "https://example.com/b"}
				]
			}`), nil
		}).
		Times(1)

	client := newsdata.NewStaticClient("news-key", newsdata.WithHTTPClient(httpClient))

	// Act: call LatestNews
	articles, err := client.LatestNews(t.Context(), "NVIDIA stock")
	require.NoError(t, err)

	// Assert: results are returned in provider order
	require.Equal(t, []newsdata.Article{
		{Title: "Chip demand surges", Description: "Strong quarter", SourceID: "reuters", PubDate: "2024-07-17 12:00:00", Link: "https://example.com/a"},
		{Title: "Bubble fears", SourceID: "ft", PubDate: "2024-07-17 11:00:00", Link: "https://example.com/b"},
	}, articles)
	require.Equal(t, "Bubble fears ", articles[1].Text())
}

func TestLatestNews_NoResults(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"missing": `{"status": "success", "totalResults": 0}`,
		"empty":   `{"status": "success", "results": []}`,
		"null":    `{"status": "success", "results": null}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			// Arrange: create a mock controller and HTTP client
			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().
				Do(gomock.Any()).
				Return(response(http.StatusOK, body), nil).
				Times(1)

			client := newsdata.NewStaticClient("news-key", newsdata.WithHTTPClient(httpClient))

			// Act: call LatestNews
			articles, err := client.LatestNews(t.Context(), "AI")

			// Assert: empty, not nil, and no error
			require.NoError(t, err)
			require.NotNil(t, articles)
			require.Empty(t, articles)
		})
	}
}

func TestLatestNews_ErrorPayload(t *testing.T) {
	t.Parallel()

	// Arrange: the provider reports errors with an object under results
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(response(http.StatusUnauthorized, `{"status": "error", "results": {"message": "API key invalid", "code": "Unauthorized"}}`), nil).
		Times(1)

	client := newsdata.NewStaticClient("YOUR_NEWSDATA_KEY", newsdata.WithHTTPClient(httpClient))

	// Act: call LatestNews
	articles, err := client.LatestNews(t.Context(), "AI")

	// Assert: the payload cannot be read as articles
	require.Nil(t, articles)
	var fetchErr *provider.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, provider.NewsData, fetchErr.Provider)
}

func TestLatestNews_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller and HTTP client
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	transportErr := errors.New("no route to host")
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(nil, transportErr).
		Times(1)

	client := newsdata.NewStaticClient("news-key", newsdata.WithHTTPClient(httpClient))

	// Act: call LatestNews
	articles, err := client.LatestNews(t.Context(), "AI")

	// Assert: the transport error is wrapped
	require.Nil(t, articles)
	require.ErrorIs(t, err, transportErr)
}

func TestNewClient_Options(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller and HTTP client
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	baseURL := "http://localhost:9000/api/1/latest"

	// Assert: base url, header, extra query and current key are all applied
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "expected url to start with base url, received: %s", req.URL.String())
			require.Equal(t, "bar", req.Header.Get("foo"))
			require.Equal(t, "en", req.URL.Query().Get("language"))
			require.Equal(t, "rotated", req.URL.Query().Get("apikey"))
			return response(http.StatusOK, `{}`), nil
		}).
		Times(1)

	key := "initial"
	client := newsdata.NewClient(func() string { return key },
		newsdata.WithHTTPClient(httpClient),
		newsdata.WithBaseURL(baseURL),
		newsdata.WithHeader(http.Header{"foo": []string{"bar"}}),
		newsdata.WithQuery(map[string][]string{"language": {"en"}}),
	)
	key = "rotated"

	// Act: call LatestNews
	_, err := client.LatestNews(t.Context(), "AI")
	require.NoError(t, err)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
