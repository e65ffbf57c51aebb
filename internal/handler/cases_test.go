package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludik-gifts/backend/internal/catalog"
	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/ledger"
)

func TestHandleListCases(t *testing.T) {
	cfg := &catalog.Config{
		Cases: []domain.CaseDefinition{{
			ID:       "basic",
			Name:     "Basic",
			PriceTON: decimal.RequireFromString("2"),
			Prizes: []domain.PrizeWeight{
				{Name: "Nothing", RawWeight: decimal.RequireFromString("0.9")},
				{Name: "Candy", RawWeight: decimal.RequireFromString("0.1")},
			},
		}},
		Floors:     map[string]decimal.Decimal{"Candy": decimal.RequireFromString("2")},
		GiftImages: map[string]string{},
	}
	snap, err := catalog.NewSnapshot(cfg, decimal.RequireFromString("0.88"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodGet, "/api/cases", nil)

	HandleListCases(snap)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"basic"`)
	assert.Contains(t, rec.Body.String(), `"Candy"`)
	assert.Contains(t, rec.Body.String(), `"probability"`)
}

func TestHandleOpenCase_Success(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("OpenCase", mock.Anything, int64(42), "lolpop", 2).Return(&ledger.OpenCaseResult{
		Prizes: []domain.InventoryItem{
			{ID: 1, Name: "Candy"},
			{ID: 2, Name: "Nothing"},
		},
		NewBalance: decimal.RequireFromString("6"),
	}, nil)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPost, "/api/open_case", OpenCaseRequest{
		CaseID:     "lolpop",
		Multiplier: 2,
	})

	HandleOpenCase(svc)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"won_prizes"`)
	assert.Contains(t, rec.Body.String(), `"new_balance_ton"`)
	svc.AssertExpectations(t)
}

func TestHandleOpenCase_InvalidMultiplier(t *testing.T) {
	svc := new(MockLedgerService)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPost, "/api/open_case", OpenCaseRequest{
		CaseID:     "lolpop",
		Multiplier: 4,
	})

	HandleOpenCase(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "OpenCase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleOpenCase_MissingCaseID(t *testing.T) {
	svc := new(MockLedgerService)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPost, "/api/open_case", map[string]interface{}{
		"multiplier": 1,
	})

	HandleOpenCase(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Fields, "caseid")
}

func TestHandleOpenCase_InsufficientFunds(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("OpenCase", mock.Anything, int64(42), "plushpepe", 3).
		Return(nil, domain.ErrInsufficientFunds)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPost, "/api/open_case", OpenCaseRequest{
		CaseID:     "plushpepe",
		Multiplier: 3,
	})

	HandleOpenCase(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgNotEnoughTONError)
}

func TestHandleOpenCase_UnknownCase(t *testing.T) {
	svc := new(MockLedgerService)
	svc.On("OpenCase", mock.Anything, int64(42), "nope", 1).
		Return(nil, domain.ErrCaseNotFound)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPost, "/api/open_case", OpenCaseRequest{
		CaseID:     "nope",
		Multiplier: 1,
	})

	HandleOpenCase(svc)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleOpenCase_MalformedBody(t *testing.T) {
	svc := new(MockLedgerService)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPost, "/api/open_case", nil)
	req.Body = io.NopCloser(strings.NewReader("{not json"))

	HandleOpenCase(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgInvalidRequest)
}
