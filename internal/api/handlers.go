package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

// ResultStore exposes the latest screening run
type ResultStore interface {
	Snapshot() (models.ToplistSnapshot, bool)
	Instruments() []models.AnnotatedSeries
	Instrument(symbol string) (models.AnnotatedSeries, bool)
}

// RunTrigger starts an immediate screening run
type RunTrigger func(ctx context.Context) error

// InstrumentSummary is the latest row of one instrument
type InstrumentSummary struct {
	Symbol         string    `json:"symbol"`
	Date           time.Time `json:"date"`
	Close          float64   `json:"close"`
	RSI            *float64  `json:"rsi"`
	MACD           *float64  `json:"macd"`
	MACDSignal     *float64  `json:"macd_signal"`
	SMA            *float64  `json:"sma"`
	BollingerUpper *float64  `json:"bollinger_upper"`
	BollingerLower *float64  `json:"bollinger_lower"`
}

// InstrumentDetail is a full annotated series. Undefined values encode as null.
type InstrumentDetail struct {
	Symbol         string      `json:"symbol"`
	Dates          []time.Time `json:"dates"`
	Close          []float64   `json:"close"`
	RSI            []*float64  `json:"rsi"`
	EMAFast        []*float64  `json:"ema_fast"`
	EMASlow        []*float64  `json:"ema_slow"`
	MACD           []*float64  `json:"macd"`
	MACDSignal     []*float64  `json:"macd_signal"`
	SMA            []*float64  `json:"sma"`
	BollingerUpper []*float64  `json:"bollinger_upper"`
	BollingerLower []*float64  `json:"bollinger_lower"`
}

func ptr(v optional.Option[float64]) *float64 {
	if v.IsNone() {
		return nil
	}
	f := v.Unwrap()
	return &f
}

func summarize(a models.AnnotatedSeries) InstrumentSummary {
	snap, ok := a.Latest()
	if !ok {
		return InstrumentSummary{Symbol: a.Symbol}
	}
	return InstrumentSummary{
		Symbol:         snap.Symbol,
		Date:           snap.Date,
		Close:          snap.Close,
		RSI:            ptr(snap.RSI),
		MACD:           ptr(snap.MACD),
		MACDSignal:     ptr(snap.MACDSignal),
		SMA:            ptr(snap.SMA),
		BollingerUpper: ptr(snap.BollingerUpper),
		BollingerLower: ptr(snap.BollingerLower),
	}
}

func detail(a models.AnnotatedSeries) InstrumentDetail {
	dates := make([]time.Time, a.Len())
	for i, b := range a.Bars {
		dates[i] = b.Date
	}
	return InstrumentDetail{
		Symbol:         a.Symbol,
		Dates:          dates,
		Close:          a.Closes(),
		RSI:            a.RSI.Floats(),
		EMAFast:        a.EMAFast.Floats(),
		EMASlow:        a.EMASlow.Floats(),
		MACD:           a.MACD.Floats(),
		MACDSignal:     a.MACDSignal.Floats(),
		SMA:            a.SMA.Floats(),
		BollingerUpper: a.BollingerUpper.Floats(),
		BollingerLower: a.BollingerLower.Floats(),
	}
}

// Handler serves the screening results
type Handler struct {
	store   ResultStore
	trigger RunTrigger
}

// NewHandler creates a new handler. trigger may be nil, which disables POST /runs.
func NewHandler(store ResultStore, trigger RunTrigger) *Handler {
	return &Handler{store: store, trigger: trigger}
}

// GetToplist handles GET /api/v1/toplist
func (h *Handler) GetToplist(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.store.Snapshot()
	if !ok {
		respondWithError(w, http.StatusNotFound, "No screening run has completed yet")
		return
	}
	respondWithJSON(w, http.StatusOK, snap)
}

// ListInstruments handles GET /api/v1/instruments
func (h *Handler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	instruments := h.store.Instruments()
	summaries := make([]InstrumentSummary, 0, len(instruments))
	for _, a := range instruments {
		summaries = append(summaries, summarize(a))
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"instruments": summaries,
		"count":       len(summaries),
	})
}

// GetInstrument handles GET /api/v1/instruments/{symbol}
func (h *Handler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	a, ok := h.store.Instrument(symbol)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Instrument not found")
		return
	}
	respondWithJSON(w, http.StatusOK, detail(a))
}

// TriggerRun handles POST /api/v1/runs
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if h.trigger == nil {
		respondWithError(w, http.StatusNotImplemented, "Run trigger not configured")
		return
	}

	if err := h.trigger(r.Context()); err != nil {
		logger.Error("Triggered run failed", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Screening run failed")
		return
	}

	snap, _ := h.store.Snapshot()
	respondWithJSON(w, http.StatusOK, snap)
}

// Health handles GET /health and /live
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles GET /ready. The service is ready once a run has completed.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.store.Snapshot(); !ok {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
