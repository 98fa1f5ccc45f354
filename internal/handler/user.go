// Package handler contains the HTTP layer: request parsing, response
// writing, and nothing else. Business rules live in internal/service.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/service"
)

// UserHandler serves the participant lifecycle routes.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// userIDParam parses the {id} route parameter. Every /users/{id} route
// shares this; a non-numeric ID is the caller's mistake, not a lookup
// miss, so it maps to 400 rather than 404.
func userIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, apperror.ValidationFailed("id", "user ID must be a number")
	}
	return id, nil
}

// HandleCreate registers a participant and returns their assigned ID.
//
// HTTP: POST /users
// BODY: {"name": "Ada Lovelace"}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.users.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UserID  int    `json:"userId"`
		Message string `json:"message"`
	}{
		UserID:  user.UserID,
		Message: "User created successfully!",
	})
}

// HandleGet returns the participant's display projection.
//
// HTTP: GET /users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Name           string `json:"name"`
		GithubUsername string `json:"githubUsername,omitempty"`
		Score          int    `json:"score"`
	}{
		Name:           user.Name,
		GithubUsername: user.GithubUsername,
		Score:          user.Score,
	})
}

// HandleGithub validates and records the participant's GitHub username.
//
// HTTP: PATCH /users/{id}
// BODY: {"githubUsername": "ada"}
func (h *UserHandler) HandleGithub(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		GithubUsername string `json:"githubUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.users.SubmitGithub(r.Context(), id, req.GithubUsername); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "GitHub username submitted and tracked successfully!",
	})
}

// HandleNodeCheck records the local toolchain versions.
//
// HTTP: POST /users/{id}/node-check
// BODY: {"nodeVersion": "v20.11.0", "npmVersion": "10.2.4"}
func (h *UserHandler) HandleNodeCheck(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		NodeVersion string `json:"nodeVersion"`
		NpmVersion  string `json:"npmVersion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.users.NodeCheck(r.Context(), id, req.NodeVersion, req.NpmVersion); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Node and npm versions submitted and logged successfully!",
	})
}

// WebhookHandler serves the deferred webhook verification route.
type WebhookHandler struct {
	webhooks *service.WebhookService
	logger   *slog.Logger
}

func NewWebhookHandler(webhooks *service.WebhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, logger: logger}
}

// HandleSchedule accepts a webhook verification request. The 200 goes
// out as soon as the task is armed; the outcome lands on the user record
// later (see service.WebhookService).
//
// HTTP: POST /users/{id}/webhook
// BODY: {"webhookUrl": "https://...", "delaySeconds": 10, "demoAppId": "render"}
func (h *WebhookHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		WebhookURL   string `json:"webhookUrl"`
		DelaySeconds int    `json:"delaySeconds"`
		DemoAppID    string `json:"demoAppId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.webhooks.Schedule(r.Context(), id, req.WebhookURL, req.DelaySeconds, req.DemoAppID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Webhook scheduled to be sent in %d seconds to %s", req.DelaySeconds, req.WebhookURL),
	})
}
