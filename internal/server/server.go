// Package server exposes the calculators over an HTTP JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iwvelando/mortgage-calculator/internal/history"
	"github.com/iwvelando/mortgage-calculator/pkg/blended"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/heloc"
	"github.com/iwvelando/mortgage-calculator/pkg/purchase"
	"github.com/iwvelando/mortgage-calculator/pkg/schedule"
	"github.com/iwvelando/mortgage-calculator/pkg/scoring"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
)

type handler struct {
	logger         *zap.Logger
	validate       *validator.Validate
	history        history.Store
	builder        *schedule.Builder
	helocCalc      *heloc.Calculator
	blendedCalc    *blended.Calculator
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, store history.Store, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = history.NewMemoryStore(constants.DefaultHistoryLimit)
	}
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:         logger,
		validate:       validator.New(),
		history:        store,
		builder:        schedule.NewBuilder(logger),
		helocCalc:      heloc.NewCalculator(logger),
		blendedCalc:    blended.NewCalculator(logger),
		maxRequestSize: maxRequestSize,
		version:        version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/purchase", h.handlePurchase)
	mux.HandleFunc("/api/heloc", h.handleHeloc)
	mux.HandleFunc("/api/blended", h.handleBlended)
	mux.HandleFunc("/api/compare", h.handleCompare)
	mux.HandleFunc("/api/history", h.handleHistory)
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type purchaseRequest struct {
	Name          string  `json:"name"`
	PropertyValue float64 `json:"propertyValue" validate:"gt=0"`
	DownPayment   float64 `json:"downPayment" validate:"gte=0"`
	Rate          float64 `json:"rate" validate:"gte=0"`
	TermMonths    int     `json:"termMonths" validate:"gt=0"`
	PMIRate       float64 `json:"pmiRate" validate:"gte=0"`
	PMIEndRule    float64 `json:"pmiEndRule" validate:"gte=0"`
	PropertyTax   float64 `json:"propertyTax" validate:"gte=0"`
	HomeInsurance float64 `json:"homeInsurance" validate:"gte=0"`
	HOA           float64 `json:"hoa" validate:"gte=0"`
	Extra         float64 `json:"extra" validate:"gte=0"`
}

func (h *handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !h.decode(w, r, &req) {
		return
	}

	result := purchase.ComputePurchaseScenario(h.logger, purchase.Input{
		Name:          req.Name,
		PropertyValue: req.PropertyValue,
		DownPayment:   req.DownPayment,
		Rate:          req.Rate,
		TermMonths:    req.TermMonths,
		PMIRate:       req.PMIRate,
		PMIEndRule:    req.PMIEndRule,
		PropertyTax:   req.PropertyTax,
		HomeInsurance: req.HomeInsurance,
		HOA:           req.HOA,
		Extra:         req.Extra,
	})

	h.record(r, "purchase", result)
	h.writeJSON(w, http.StatusOK, result)
}

type helocRequest struct {
	PropertyValue      float64 `json:"propertyValue" validate:"gt=0"`
	OutstandingBalance float64 `json:"outstandingBalance" validate:"gte=0"`
	HelocAmount        float64 `json:"helocAmount" validate:"gt=0"`
	Rate               float64 `json:"rate" validate:"gte=0"`
	DrawYears          int     `json:"drawYears" validate:"gte=0"`
	TotalYears         int     `json:"totalYears" validate:"gt=0"`
}

func (h *handler) handleHeloc(w http.ResponseWriter, r *http.Request) {
	var req helocRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.helocCalc.ComputeHelocAnalysis(heloc.Input{
		PropertyValue:      req.PropertyValue,
		OutstandingBalance: req.OutstandingBalance,
		HelocAmount:        req.HelocAmount,
		Rate:               req.Rate,
		DrawYears:          req.DrawYears,
		TotalYears:         req.TotalYears,
	})
	if err != nil {
		h.writeCalcError(w, err)
		return
	}

	h.record(r, "heloc", result)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleBlended(w http.ResponseWriter, r *http.Request) {
	var params blended.Params
	if !h.decode(w, r, &params) {
		return
	}

	result, err := h.blendedCalc.Calculate(params)
	if err != nil {
		h.writeCalcError(w, err)
		return
	}

	h.record(r, "blended", result)
	h.writeJSON(w, http.StatusOK, result)
}

type compareRequest struct {
	Mode  string               `json:"mode"`
	Loans []schedule.LoanInput `json:"loans" validate:"min=1"`
}

type compareResponse struct {
	Best  *schedule.LoanResult   `json:"best"`
	Loans []*schedule.LoanResult `json:"loans"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decode(w, r, &req) {
		return
	}

	results := make([]*schedule.LoanResult, 0, len(req.Loans))
	for _, input := range req.Loans {
		result := h.builder.BuildFixedLoanSchedule(input)
		results = append(results, &result)
	}

	best := scoring.DetermineBestLoan(results, scoring.Mode(req.Mode))
	response := compareResponse{Best: best, Loans: results}

	h.record(r, "comparison", response)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to read history",
			zap.String("op", "server.handleHistory"),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// decode parses and validates a JSON request body. Returns false after
// writing the error response when the request is unusable.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}

	if err := h.validate.Struct(target); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}

	return true
}

// writeCalcError maps calculator errors onto status codes: domain
// validation failures are 422, anything else is a 500.
func (h *handler) writeCalcError(w http.ResponseWriter, err error) {
	var validationErr *validation.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
		return
	}
	h.logger.Error("calculation failed",
		zap.String("op", "server.writeCalcError"),
		zap.Error(err),
	)
	h.writeError(w, http.StatusInternalServerError, "calculation failed")
}

// record saves a result envelope to the history store. Failures are logged
// and ignored so persistence never blocks a calculation response.
func (h *handler) record(r *http.Request, kind string, result interface{}) {
	if _, err := h.history.Save(r.Context(), kind, result); err != nil {
		h.logger.Warn("failed to store result history",
			zap.String("op", "server.record"),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
