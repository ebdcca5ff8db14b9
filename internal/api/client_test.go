package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/stocklyzer/internal/models"
)

const capmBody = `{
  "market_return": 0.1234,
  "risk_free_rate": 0,
  "beta_results": [{"stock": "AAPL", "beta": 1.2051, "alpha": 0.0004}],
  "capm_results": [{"stock": "AAPL", "beta": 1.2051, "expected_return": 0.1487}],
  "normalized_data": [
    {"Date": "2024-01-02T00:00:00", "AAPL": 1.0, "GSPC": 1.0},
    {"Date": "2024-01-03T00:00:00", "AAPL": 0.9925, "GSPC": 0.9920}
  ]
}`

// newBackend starts a mock analytics service mounted under /api.
func newBackend(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL+"/api", WithLogger(zerolog.Nop()))
}

func TestCalculateCAPMPassesBodyThrough(t *testing.T) {
	var gotBody map[string]any
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/capm/calculate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, capmBody)
	})

	resp, err := client.CalculateCAPM(context.Background(), models.CAPMRequest{Stocks: []string{"AAPL"}, Years: 1})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"stocks": []any{"AAPL"}, "years": float64(1)}, gotBody)

	roundTrip, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, capmBody, string(roundTrip))

	require.Len(t, resp.NormalizedData, 2)
	assert.Equal(t, "2024-01-03T00:00:00", resp.NormalizedData[1].Date)
	assert.InDelta(t, 0.9925, resp.NormalizedData[1].Values["AAPL"], 1e-12)
	assert.Equal(t, []string{"AAPL", "GSPC"}, resp.NormalizedData[0].Columns())
}

func TestAnalyzeDecodesIndicators(t *testing.T) {
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analysis/analyze", r.URL.Path)
		io.WriteString(w, `{
			"symbol": "MSFT", "current_price": 410.5,
			"price_data": [{"date": "2024-05-01", "price": 400.0}, {"date": "2024-05-02", "price": 410.5}],
			"technical_indicators": {
				"moving_averages": {"ma_10": 405.1, "ma_20": 401.2, "ma_50": null},
				"rsi": 71.3,
				"macd": {"macd": 1.2345, "signal": 1.1, "histogram": 0.1345},
				"bollinger_bands": {"upper": 420.0, "middle": 405.0, "lower": 390.0}
			},
			"summary": {"trend": "uptrend", "pe_ratio": 35.2, "market_cap": null}
		}`)
	})

	resp, err := client.Analyze(context.Background(), models.AnalysisRequest{Symbol: "MSFT", Period: models.Period1Y})
	require.NoError(t, err)

	assert.Equal(t, "MSFT", resp.Symbol)
	require.NotNil(t, resp.TechnicalIndicators.MovingAverages.MA10)
	assert.Nil(t, resp.TechnicalIndicators.MovingAverages.MA50)
	assert.InDelta(t, 71.3, *resp.TechnicalIndicators.RSI, 1e-9)
	assert.Nil(t, resp.TechnicalIndicators.Volume)

	trend, ok := resp.Summary.String("trend")
	assert.True(t, ok)
	assert.Equal(t, "uptrend", trend)
	assert.Equal(t, "35.2", resp.Summary.Display("pe_ratio"))
	assert.Equal(t, "N/A", resp.Summary.Display("market_cap"))
}

func TestPredictSendsHorizon(t *testing.T) {
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.PredictionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.PredictionRequest{Symbol: "TSLA", Days: 7}, req)
		io.WriteString(w, `{
			"symbol": "TSLA",
			"historical_data": [{"date": "2024-05-01", "price": 180.0}],
			"predictions": [{"date": "2024-05-02", "predicted_price": 181.5, "confidence_interval_upper": 190.0}],
			"model_info": {"model_type": "ARIMA", "rmse": 4.21}
		}`)
	})

	resp, err := client.Predict(context.Background(), models.PredictionRequest{Symbol: "TSLA", Days: 7})
	require.NoError(t, err)
	require.Len(t, resp.Predictions, 1)
	assert.InDelta(t, 190.0, *resp.Predictions[0].ConfidenceIntervalUpper, 1e-9)
	assert.Nil(t, resp.Predictions[0].ConfidenceIntervalLower)
	rmse, ok := resp.ModelInfo.Float("rmse")
	assert.True(t, ok)
	assert.InDelta(t, 4.21, rmse, 1e-9)
}

func TestServerDetailIsPassedThrough(t *testing.T) {
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"bad symbol"}`)
	})

	_, err := client.CalculateCAPM(context.Background(), models.CAPMRequest{Stocks: []string{"AAPL"}, Years: 1})
	require.Error(t, err)
	assert.Equal(t, "bad symbol", err.Error())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestServerErrorWithoutDetailUsesFallback(t *testing.T) {
	bodies := map[string]string{
		"empty":        "",
		"not json":     "Internal Server Error",
		"array detail": `{"detail":[{"loc":["body","days"],"msg":"field required"}]}`,
		"empty detail": `{"detail":""}`,
	}

	calls := []struct {
		name     string
		fallback string
		call     func(*Client) error
	}{
		{"capm", "Failed to calculate CAPM", func(c *Client) error {
			_, err := c.CalculateCAPM(context.Background(), models.CAPMRequest{Stocks: []string{"AAPL"}, Years: 1})
			return err
		}},
		{"analyze", "Failed to analyze stock", func(c *Client) error {
			_, err := c.Analyze(context.Background(), models.AnalysisRequest{Symbol: "AAPL", Period: models.DefaultPeriod})
			return err
		}},
		{"predict", "Failed to predict stock prices", func(c *Client) error {
			_, err := c.Predict(context.Background(), models.PredictionRequest{Symbol: "AAPL", Days: models.DefaultDays})
			return err
		}},
		{"stocks", "Failed to load available stocks", func(c *Client) error {
			_, err := c.AvailableStocks(context.Background())
			return err
		}},
		{"search", "Failed to search stocks", func(c *Client) error {
			_, err := c.Search(context.Background(), "apple")
			return err
		}},
		{"info", "Failed to get stock info", func(c *Client) error {
			_, err := c.Info(context.Background(), "AAPL")
			return err
		}},
	}

	for bodyName, body := range bodies {
		for _, tc := range calls {
			t.Run(tc.name+"/"+bodyName, func(t *testing.T) {
				_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
					io.WriteString(w, body)
				})

				err := tc.call(client)
				require.Error(t, err)
				assert.Equal(t, tc.fallback, err.Error())
				assert.Equal(t, KindServer, KindOf(err))
			})
		}
	}
}

func TestTimeoutFailsInsteadOfHanging(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(srv.URL+"/api", WithTimeout(100*time.Millisecond), WithLogger(zerolog.Nop()))

	start := time.Now()
	_, err := client.Predict(context.Background(), models.PredictionRequest{Symbol: "AAPL", Days: 30})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.Equal(t, KindTimeout, KindOf(err))
	assert.Equal(t, "Failed to predict stock prices", err.Error())
}

func TestContextDeadlineIsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(srv.URL, WithLogger(zerolog.Nop()))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Analyze(ctx, models.AnalysisRequest{Symbol: "AAPL", Period: models.Period1M})
	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUnreachableBackendIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, WithLogger(zerolog.Nop()))
	_, err := client.Analyze(context.Background(), models.AnalysisRequest{Symbol: "AAPL", Period: models.Period1Y})
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, "Failed to analyze stock", err.Error())
}

func TestMalformedSuccessBodyIsTransportError(t *testing.T) {
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"market_return": "lots"`)
	})

	_, err := client.CalculateCAPM(context.Background(), models.CAPMRequest{Stocks: []string{"AAPL"}, Years: 1})
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, "Failed to calculate CAPM", err.Error())
}

func TestHealth(t *testing.T) {
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		io.WriteString(w, `{"status":"healthy"}`)
	})

	h, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
}

func TestHealthDiscardsCause(t *testing.T) {
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"detail":"database down"}`)
	})

	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Backend service is not available", err.Error())
	assert.Nil(t, errors.Unwrap(err))
	assert.Equal(t, KindServer, KindOf(err))
}

func TestSearchEscapesQuery(t *testing.T) {
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analysis/search/apple inc", r.URL.Path)
		io.WriteString(w, `{"results":[{"symbol":"AAPL","name":"Apple Inc.","exchange":"NMS","type":"EQUITY"}]}`)
	})

	res, err := client.Search(context.Background(), "apple inc")
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "AAPL", res.Results[0].Symbol)
}

func TestInfoAndAvailableStocks(t *testing.T) {
	_, client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analysis/info/NVDA":
			io.WriteString(w, `{"symbol":"NVDA","name":"NVIDIA Corporation","beta":1.7,"employees":null}`)
		case "/api/capm/available-stocks":
			io.WriteString(w, `{"stocks":["TSLA","AAPL"],"description":"Popular stock symbols"}`)
		default:
			http.NotFound(w, r)
		}
	})

	info, err := client.Info(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA Corporation", info.Display("name"))
	assert.Equal(t, "N/A", info.Display("employees"))

	stocks, err := client.AvailableStocks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA", "AAPL"}, stocks.Stocks)
}

func TestLogsOneLinePerRequestAndOnError(t *testing.T) {
	var requestIDs atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") != "" {
			requestIDs.Add(1)
		}
		if strings.HasSuffix(r.URL.Path, "/predict") {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"detail":"unknown ticker"}`)
			return
		}
		io.WriteString(w, `{"status":"healthy"}`)
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	client := NewClient(srv.URL+"/api", WithLogger(zerolog.New(&buf)))

	_, err := client.Health(context.Background())
	require.NoError(t, err)
	_, err = client.Predict(context.Background(), models.PredictionRequest{Symbol: "ZZZZ", Days: 7})
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Making GET request to /health")
	assert.Contains(t, lines[1], "Making POST request to /prediction/predict")
	assert.Contains(t, lines[2], "unknown ticker")
	assert.Equal(t, int32(2), requestIDs.Load())
}

func TestLogsExpandedPathParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[]}`)
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	client := NewClient(srv.URL+"/api", WithLogger(zerolog.New(&buf)))

	_, err := client.Search(context.Background(), "apple inc")
	require.NoError(t, err)
	_, _ = client.Info(context.Background(), "NVDA")

	out := buf.String()
	assert.Contains(t, out, "Making GET request to /analysis/search/apple%20inc")
	assert.Contains(t, out, "Making GET request to /analysis/info/NVDA")
	assert.NotContains(t, out, "{query}")
	assert.NotContains(t, out, "{symbol}")
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = NewClient("http://example.com/api/")
	assert.Equal(t, "http://example.com/api", c.BaseURL())
}
