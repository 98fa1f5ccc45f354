package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/service"
)

// MerchantHandler serves chapter 2: merchant registration and the
// payment gateway's return callback.
type MerchantHandler struct {
	progress *service.ProgressService
	logger   *slog.Logger
}

func NewMerchantHandler(progress *service.ProgressService, logger *slog.Logger) *MerchantHandler {
	return &MerchantHandler{progress: progress, logger: logger}
}

// HandleRegister creates the participant's merchant record.
//
// HTTP: POST /users/{id}/merchant
// BODY: {"merchantId": "42", "merchantType": "gaming"}
//
// merchantId arrives as a JSON string OR number depending on which demo
// client sends it, so it is decoded leniently and re-validated in the
// service layer.
func (h *MerchantHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		MerchantID   json.Number `json:"merchantId"`
		MerchantType string      `json:"merchantType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	progress, err := h.progress.RegisterMerchant(r.Context(), id, req.MerchantID.String(), req.MerchantType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Merchant %d registered as %s for user %d!", progress.MerchantID, progress.Merchant, id),
	})
}

// HandleEstablishReturnCancel is the gateway's browser-redirect target
// after a demo transaction. Only status 2 counts as an authorization.
//
// HTTP: GET /users/{id}/establish-return-cancel?transactionId=tx-1&status=2
func (h *MerchantHandler) HandleEstablishReturnCancel(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	transactionID := r.URL.Query().Get("transactionId")
	status := r.URL.Query().Get("status")

	if err := h.progress.AuthorizeReturn(r.Context(), id, transactionID, status); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
