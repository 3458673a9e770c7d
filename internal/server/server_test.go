package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-calculator/internal/history"
)

func newTestHandler() (http.Handler, *history.MemoryStore) {
	store := history.NewMemoryStore(10)
	return NewHandler(nil, store, 1<<20, "test"), store
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlePurchase(t *testing.T) {
	h, store := newTestHandler()
	rec := postJSON(t, h, "/api/purchase", `{
		"propertyValue": 400000,
		"downPayment": 80000,
		"rate": 6.5,
		"termMonths": 360
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var response struct {
		LTV        float64 `json:"ltv"`
		LoanAmount float64 `json:"loanAmount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.LoanAmount != 320000 {
		t.Errorf("loan amount = %.2f, expected 320000", response.LoanAmount)
	}
	if response.LTV != 80 {
		t.Errorf("ltv = %.2f, expected 80", response.LTV)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != "purchase" {
		t.Errorf("history entries = %+v, expected one purchase record", entries)
	}
}

func TestHandlePurchaseValidation(t *testing.T) {
	h, _ := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "Zero property value",
			body: `{"propertyValue": 0, "downPayment": 0, "rate": 6.5, "termMonths": 360}`,
		},
		{
			name: "Negative rate",
			body: `{"propertyValue": 400000, "downPayment": 0, "rate": -1, "termMonths": 360}`,
		},
		{
			name: "Unknown field",
			body: `{"propertyValue": 400000, "rate": 6.5, "termMonths": 360, "bogus": true}`,
		},
		{
			name: "Malformed JSON",
			body: `{"propertyValue": `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h, "/api/purchase", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400", rec.Code)
			}
		})
	}
}

func TestHandleMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/purchase", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, expected 405", rec.Code)
	}
}

func TestHandleHeloc(t *testing.T) {
	h, _ := newTestHandler()
	rec := postJSON(t, h, "/api/heloc", `{
		"propertyValue": 500000,
		"outstandingBalance": 250000,
		"helocAmount": 50000,
		"rate": 8.0,
		"drawYears": 5,
		"totalYears": 15
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var response struct {
		RepaymentMonths int `json:"repaymentMonths"`
		LTV             struct {
			CombinedLTV float64 `json:"combinedLTV"`
		} `json:"ltv"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.RepaymentMonths != 120 {
		t.Errorf("repayment months = %d, expected 120", response.RepaymentMonths)
	}
	if response.LTV.CombinedLTV != 60 {
		t.Errorf("combined LTV = %.2f, expected 60", response.LTV.CombinedLTV)
	}
}

func TestHandleHelocDomainValidation(t *testing.T) {
	h, _ := newTestHandler()

	// Total term shorter than the draw period is a domain error, not a
	// structural one, so it maps to 422.
	rec := postJSON(t, h, "/api/heloc", `{
		"propertyValue": 500000,
		"outstandingBalance": 250000,
		"helocAmount": 50000,
		"rate": 8.0,
		"drawYears": 10,
		"totalYears": 5
	}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, expected 422, body = %s", rec.Code, rec.Body.String())
	}
	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(response["error"], "repayment period") {
		t.Errorf("error = %q, expected the repayment period message", response["error"])
	}
}

func TestHandleBlended(t *testing.T) {
	h, _ := newTestHandler()
	rec := postJSON(t, h, "/api/blended", `{
		"homeValue": 500000,
		"downPayment": 100000,
		"first": {"type": "fixed", "amount": 400000, "rate": 6.0, "termYears": 30}
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Combined struct {
			TotalLoanAmount float64 `json:"totalLoanAmount"`
		} `json:"combined"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Combined.TotalLoanAmount != 400000 {
		t.Errorf("total loan amount = %.2f, expected 400000", response.Combined.TotalLoanAmount)
	}
}

func TestHandleBlendedDomainValidation(t *testing.T) {
	h, _ := newTestHandler()
	rec := postJSON(t, h, "/api/blended", `{
		"homeValue": 500000,
		"downPayment": 10000,
		"first": {"type": "fixed", "amount": 400000, "rate": 6.0, "termYears": 30},
		"second": {"type": "heloc", "amount": 90000, "rate": 8.0}
	}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, expected 422 at 98%% combined LTV, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCompare(t *testing.T) {
	h, _ := newTestHandler()
	rec := postJSON(t, h, "/api/compare", `{
		"mode": "principalInterest",
		"loans": [
			{"name": "a", "amount": 300000, "rate": 6.0, "termMonths": 360},
			{"name": "b", "amount": 300000, "rate": 6.5, "termMonths": 360}
		]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Best struct {
			Input struct {
				Name string `json:"name"`
			} `json:"input"`
			Evaluation struct {
				ScoreBasis string `json:"scoreBasis"`
			} `json:"evaluation"`
		} `json:"best"`
		Loans []json.RawMessage `json:"loans"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Best.Input.Name != "a" {
		t.Errorf("best loan = %q, expected the lower rate to win", response.Best.Input.Name)
	}
	if response.Best.Evaluation.ScoreBasis != "principalInterest" {
		t.Errorf("score basis = %q, expected principalInterest", response.Best.Evaluation.ScoreBasis)
	}
	if len(response.Loans) != 2 {
		t.Errorf("loans = %d, expected 2", len(response.Loans))
	}
}

func TestHandleCompareEmptyLoans(t *testing.T) {
	h, _ := newTestHandler()
	rec := postJSON(t, h, "/api/compare", `{"mode": "payoffSpeed", "loans": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400 for an empty loan list", rec.Code)
	}
}

func TestHandleHistory(t *testing.T) {
	h, _ := newTestHandler()

	postJSON(t, h, "/api/purchase", `{"propertyValue": 400000, "downPayment": 80000, "rate": 6.5, "termMonths": 360}`)
	postJSON(t, h, "/api/purchase", `{"propertyValue": 300000, "downPayment": 60000, "rate": 6.0, "termMonths": 360}`)

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Entries []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Entries) != 1 {
		t.Fatalf("entries = %d, expected the limit of 1", len(response.Entries))
	}
	if response.Entries[0].Kind != "purchase" {
		t.Errorf("kind = %q, expected purchase", response.Entries[0].Kind)
	}

	badLimit := httptest.NewRequest(http.MethodGet, "/api/history?limit=x", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, badLimit)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400 for a bad limit", rec.Code)
	}

	post := httptest.NewRequest(http.MethodPost, "/api/history", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, post)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, expected 405 for POST", rec.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	h, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["version"] != "test" {
		t.Errorf("version = %q, expected test", response["version"])
	}
}

func TestHandleRequestSizeLimit(t *testing.T) {
	store := history.NewMemoryStore(10)
	h := NewHandler(nil, store, 64, "test")

	body := `{"propertyValue": 400000, "downPayment": 80000, "rate": 6.5, "termMonths": 360, "name": "` +
		strings.Repeat("x", 200) + `"}`
	rec := postJSON(t, h, "/api/purchase", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400 for an oversized body", rec.Code)
	}
}
