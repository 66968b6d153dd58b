package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type converterRequest struct {
	Code1 string  `json:"code_1"`
	Code2 string  `json:"code_2"`
	K     float64 `json:"k"`
}

func (s *Server) handleCurrencyList(w http.ResponseWriter, r *http.Request) {
	currencies, err := s.currency.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Available currencies for conversion",
		"currencies": currencies,
	})
}

func (s *Server) handleActualRates(w http.ResponseWriter, r *http.Request) {
	// a repeatable ?code= parameter narrows the snapshot to selected codes
	codes := r.URL.Query()["code"]

	rates, err := s.currency.ActualRates(r.Context(), codes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Actual currencies rates. Base currency: USD (1 USD = value [Currency])",
		"rates":   rates,
	})
}

func (s *Server) handleActualRate(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeValidationError(w, "Query parameter 'code' is required")
		return
	}

	rate, err := s.currency.ActualRate(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Current %s to dollar exchange rate (1 USD = value %s)", code, code),
		"rate":    rate,
	})
}

func (s *Server) handleConverter(w http.ResponseWriter, r *http.Request) {
	req := converterRequest{K: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}
	if req.Code1 == "" || req.Code2 == "" {
		writeValidationError(w, "Currency codes are required")
		return
	}
	if req.K <= 0 {
		writeValidationError(w, "Amount must be positive")
		return
	}

	result, err := s.currency.Convert(r.Context(), req.Code1, req.Code2, req.K)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%g %s - %g %s", req.K, req.Code1, result, req.Code2),
		"result":  result,
	})
}
