package alphavantage_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bubbledash/internal/provider"
	"bubbledash/internal/provider/alphavantage"
)

func TestOverview(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "OVERVIEW", req.URL.Query().Get("function"))
			require.Equal(t, "MSFT", req.URL.Query().Get("symbol"))
			return jsonResponse(t, map[string]any{
				"Symbol":               "MSFT",
				"PERatio":              "36.12",
				"PriceToBookRatio":     "12.4",
				"ReturnOnEquityTTM":    "0.374",
				"ProfitMargin":         "0.364",
				"MarketCapitalization": "3290000000000",
			}), nil
		}).
		Times(1)

	client := alphavantage.NewStaticClient("test-key", alphavantage.WithHTTPClient(httpClient))

	// Act: call Overview
	f, err := client.Overview(t.Context(), "MSFT")
	require.NoError(t, err)

	// Assert: all five metrics are parsed
	require.Equal(t, &provider.Fundamentals{
		PERatio:      36.12,
		PriceToBook:  12.4,
		ROE:          0.374,
		ProfitMargin: 0.364,
		MarketCap:    3290000000000,
	}, f)
}

func TestOverview_MissingMetricsAreZero(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller and HTTP client
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(rawResponse(http.StatusOK, `{}`), nil).
		Times(1)

	client := alphavantage.NewStaticClient("test-key", alphavantage.WithHTTPClient(httpClient))

	// Act: call Overview
	f, err := client.Overview(t.Context(), "NVDA")

	// Assert: a response without metrics is all zeros, not nil
	require.NoError(t, err)
	require.Equal(t, &provider.Fundamentals{}, f)
}

func TestOverview_NoneAndDashAreZero(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller and HTTP client
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(rawResponse(http.StatusOK, `{"PERatio": "None", "PriceToBookRatio": "-", "ReturnOnEquityTTM": 0.5, "ProfitMargin": null}`), nil).
		Times(1)

	client := alphavantage.NewStaticClient("test-key", alphavantage.WithHTTPClient(httpClient))

	// Act: call Overview
	f, err := client.Overview(t.Context(), "NVDA")
	require.NoError(t, err)

	// Assert: placeholders become 0, numeric JSON values are accepted
	require.Zero(t, f.PERatio)
	require.Zero(t, f.PriceToBook)
	require.InEpsilon(t, 0.5, f.ROE, 1e-9)
	require.Zero(t, f.ProfitMargin)
	require.Zero(t, f.MarketCap)
}

func TestOverview_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller and HTTP client
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(nil, fmt.Errorf("timeout")).
		Times(1)

	client := alphavantage.NewStaticClient("test-key", alphavantage.WithHTTPClient(httpClient))

	// Act: call Overview
	f, err := client.Overview(t.Context(), "NVDA")

	// Assert: the whole request failing is an error
	require.Error(t, err)
	require.Nil(t, f)
}
