package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/persistence"
)

// EvaluateRequest carries one full snapshot to score. The caller owns
// data acquisition; the server only evaluates.
type EvaluateRequest struct {
	Symbol     string            `json:"symbol"`
	MarketType market.MarketType `json:"market_type"`
	Timeframe  market.Timeframe  `json:"timeframe"`
	Candles    market.Series     `json:"candles"`
	Context    *market.Context   `json:"context,omitempty"`
	Persist    bool              `json:"persist"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Symbol == "" || len(req.Candles) == 0 {
		writeError(w, http.StatusBadRequest, "symbol and candles are required")
		return
	}
	if req.Timeframe == "" {
		req.Timeframe = market.TF1h
	}
	if req.MarketType == "" {
		req.MarketType = market.Spot
	}

	start := time.Now()
	out := s.engine.Evaluate(feature.Input{
		Series:     req.Candles,
		Symbol:     req.Symbol,
		Timeframe:  req.Timeframe,
		MarketType: req.MarketType,
		Context:    req.Context,
	})
	s.metrics.DecisionDuration.Observe(time.Since(start).Seconds())
	s.metrics.DecisionsTotal.WithLabelValues(out.Signal.String(), string(out.Timeframe)).Inc()
	for _, name := range out.FailedFeatures {
		s.metrics.FeatureFailures.WithLabelValues(name).Inc()
	}
	if !out.Consensus.Fired {
		s.metrics.ConsensusRejected.Inc()
	}

	if s.cache != nil {
		s.cache.Set(r.Context(), out)
	}
	if req.Persist && s.store != nil {
		rec, err := persistence.NewRecord(out)
		if err == nil {
			err = s.store.Save(r.Context(), rec)
		}
		if err != nil {
			s.log.Error().Err(err).Str("symbol", out.Symbol).Msg("persist decision failed")
		}
	}
	s.hub.Broadcast(out)

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	tf := market.Timeframe(r.URL.Query().Get("timeframe"))
	if tf == "" {
		tf = market.TF1h
	}

	if s.cache != nil {
		if out, ok := s.cache.Get(r.Context(), symbol, tf); ok {
			writeJSON(w, http.StatusOK, out)
			return
		}
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	rec, err := s.store.Latest(r.Context(), symbol, tf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed: "+err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no decision for "+symbol)
		return
	}
	out, err := rec.Output()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "corrupt record: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}
	symbol := mux.Vars(r)["symbol"]

	tr := persistence.TimeRange{From: time.Now().Add(-24 * time.Hour), To: time.Now()}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from: "+err.Error())
			return
		}
		tr.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to: "+err.Error())
			return
		}
		tr.To = t
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be 1-1000")
			return
		}
		limit = n
	}

	recs, err := s.store.ListBySymbol(r.Context(), symbol, tr, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    symbol,
		"count":     len(recs),
		"decisions": recs,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "no such route: "+r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
