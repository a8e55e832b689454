package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"bubbledash/internal/credentials"
	"bubbledash/internal/provider"
	"bubbledash/internal/storage"
)

// OriginHeader tells the client whether a news summary is live or mocked.
const OriginHeader = "X-Data-Origin"

type handler struct {
	svc       Service
	snapshots storage.Recorder
	log       zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func symbolParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
}

// GET /api/quotes/{symbol}
func (h *handler) getQuote(w http.ResponseWriter, r *http.Request) {
	q := h.svc.FetchQuote(r.Context(), symbolParam(r))
	if q == nil {
		writeError(w, http.StatusNotFound, "no data")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// GET /api/historical/{symbol}?function=TIME_SERIES_WEEKLY
func (h *handler) getHistorical(w http.ResponseWriter, r *http.Request) {
	s := h.svc.FetchHistorical(r.Context(), symbolParam(r), r.URL.Query().Get("function"))
	if s == nil {
		writeError(w, http.StatusNotFound, "no data")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// GET /api/historical/{symbol}/candles
func (h *handler) getCandles(w http.ResponseWriter, r *http.Request) {
	s := h.svc.FetchHistorical(r.Context(), symbolParam(r), r.URL.Query().Get("function"))
	if s == nil {
		writeError(w, http.StatusNotFound, "no data")
		return
	}
	candles := s.Candles()
	if candles == nil {
		candles = []provider.Candle{}
	}
	writeJSON(w, http.StatusOK, candles)
}

// GET /api/fundamentals/{symbol}
func (h *handler) getFundamentals(w http.ResponseWriter, r *http.Request) {
	f := h.svc.FetchFundamentals(r.Context(), symbolParam(r))
	if f == nil {
		writeError(w, http.StatusBadGateway, "fundamentals unavailable")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// GET /api/news?q=...
func (h *handler) getNews(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	res := h.svc.FetchNewsResult(r.Context(), query)
	w.Header().Set(OriginHeader, string(res.Origin))
	if res.Origin == provider.OriginFailed {
		writeError(w, http.StatusBadGateway, "news unavailable")
		return
	}
	writeJSON(w, http.StatusOK, res.Summary)
}

// GET /api/risk?symbol=NVDA&q=AI+bubble
func (h *handler) getRisk(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		symbol = "NVDA"
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		query = "AI bubble"
	}
	writeJSON(w, http.StatusOK, h.svc.Risk(r.Context(), symbol, query))
}

type keyStatus struct {
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
	Key        string `json:"key,omitempty"`
}

// GET /api/keys
func (h *handler) listKeys(w http.ResponseWriter, r *http.Request) {
	out := make([]keyStatus, 0, len(credentials.Providers()))
	for _, name := range credentials.Providers() {
		st := keyStatus{Provider: name, Configured: h.svc.Configured(name)}
		if st.Configured {
			st.Key = credentials.Mask(h.svc.GetKey(name))
		}
		out = append(out, st)
	}
	writeJSON(w, http.StatusOK, out)
}

type putKeyRequest struct {
	Key string `json:"key"`
}

// PUT /api/keys/{provider}
func (h *handler) putKey(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	var req putKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SetKey(r.Context(), name, strings.TrimSpace(req.Key)); err != nil {
		if errors.Is(err, credentials.ErrUnknownProvider) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("set key")
		writeError(w, http.StatusInternalServerError, "could not save key")
		return
	}
	writeJSON(w, http.StatusOK, keyStatus{Provider: name, Configured: h.svc.Configured(name)})
}

// POST /api/selftest
func (h *handler) selfTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.SelfTest(r.Context()))
}

func limitParam(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// GET /api/snapshots/quotes/{symbol}?limit=N
func (h *handler) listQuoteSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	snaps, err := h.snapshots.ListQuotes(r.Context(), symbolParam(r), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list quote snapshots")
		writeError(w, http.StatusInternalServerError, "could not read snapshots")
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

// GET /api/snapshots/news?q=...&limit=N
func (h *handler) listNewsSnapshots(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit, ok := limitParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	snaps, err := h.snapshots.ListNews(r.Context(), query, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list news snapshots")
		writeError(w, http.StatusInternalServerError, "could not read snapshots")
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}
