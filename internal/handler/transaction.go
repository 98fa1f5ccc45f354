package handler

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
	"github.com/sakif/workshop-tracker/internal/service"
)

// TransactionHandler serves the /transactions sub-router the demo apps
// call during the authorization exercise.
type TransactionHandler struct {
	transactions *service.TransactionService
	logger       *slog.Logger
}

func NewTransactionHandler(transactions *service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, logger: logger}
}

// HandleGet looks up one transaction.
//
// HTTP: GET /transactions/{transactionId}?userId=7
func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("transactionId")
	userID := r.URL.Query().Get("userId")

	tx, err := h.transactions.Get(r.Context(), transactionID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// HandleCreate stores a new transaction.
//
// HTTP: POST /transactions
// BODY: {"transactionId": "tx-1", "userId": 7, "status": "pending"}
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TransactionID string `json:"transactionId"`
		UserID        int    `json:"userId"`
		Status        string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	created, err := h.transactions.Create(r.Context(), &model.Transaction{
		TransactionID: req.TransactionID,
		UserID:        req.UserID,
		Status:        req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandlePatch updates splitToken and/or status on a transaction.
//
// HTTP: PATCH /transactions/{transactionId}
// BODY: {"userId": 7, "splitToken": "tok", "status": "complete"}
func (h *TransactionHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("transactionId")

	var req struct {
		UserID     int    `json:"userId"`
		SplitToken string `json:"splitToken"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	updated, err := h.transactions.Patch(r.Context(), transactionID, req.UserID, req.SplitToken, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
