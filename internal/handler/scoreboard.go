package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/workshop-tracker/internal/service"
)

// ScoreboardHandler serves the ranked participant list. The same handler
// backs GET /scoreboard and GET /users — both existed in earlier
// versions of the API and the workshop slides reference both.
type ScoreboardHandler struct {
	scoreboard *service.ScoreboardService
	logger     *slog.Logger
}

func NewScoreboardHandler(scoreboard *service.ScoreboardService, logger *slog.Logger) *ScoreboardHandler {
	return &ScoreboardHandler{scoreboard: scoreboard, logger: logger}
}

// HandleScoreboard returns every participant, ranked.
//
// HTTP: GET /scoreboard, GET /users
func (h *ScoreboardHandler) HandleScoreboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scoreboard.Compute(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
