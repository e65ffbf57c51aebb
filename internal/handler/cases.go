package handler

import (
	"net/http"

	"github.com/ludik-gifts/backend/internal/catalog"
	"github.com/ludik-gifts/backend/internal/ledger"
	"github.com/ludik-gifts/backend/internal/logger"
)

// HandleListCases returns every case with its calibrated prize table.
// The snapshot is immutable, so the response is the same for everyone.
func HandleListCases(snapshot *catalog.Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs := snapshot.Cases()
		out := make([]interface{}, 0, len(defs))
		for _, def := range defs {
			table, err := snapshot.Calibrated(def.ID)
			if err != nil {
				// Snapshot construction guarantees a table per case.
				respondServiceError(w, r, "List cases", err)
				return
			}
			out = append(out, table)
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// OpenCaseRequest opens a case one to three times in a single debit.
type OpenCaseRequest struct {
	CaseID     string `json:"case_id" validate:"required"`
	Multiplier int    `json:"multiplier" validate:"required,oneof=1 2 3"`
}

// HandleOpenCase debits the case price times the multiplier and returns
// the prizes won.
func HandleOpenCase(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mustIdentity(w, r)
		if !ok {
			return
		}

		var req OpenCaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Open case"); err != nil {
			return
		}

		result, err := svc.OpenCase(r.Context(), identity.ID, req.CaseID, req.Multiplier)
		if err != nil {
			respondServiceError(w, r, "Open case", err)
			return
		}

		logger.FromContext(r.Context()).Info("Case opened",
			"user_id", identity.ID,
			"case_id", req.CaseID,
			"multiplier", req.Multiplier,
			"prizes", len(result.Prizes))
		respondJSON(w, http.StatusOK, result)
	}
}
