package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sakif/workshop-tracker/internal/model"
	"github.com/sakif/workshop-tracker/internal/repository"
)

// ScoreboardService produces the ranked participant list shown on the
// workshop projector.
type ScoreboardService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewScoreboardService(users repository.UserRepository, logger *slog.Logger) *ScoreboardService {
	return &ScoreboardService{users: users, logger: logger}
}

// Compute loads every user record and ranks them.
//
// ORDERING:
// score descending, then most-recently-edited first among equal scores.
// The recency tie-break is intentional — a tied participant who just
// finished a step shows above one who has been idle — and beyond that
// the backend's return order is preserved (stable sort), which keeps the
// residual equal-score-equal-timestamp case deterministic.
func (s *ScoreboardService) Compute(ctx context.Context) ([]model.ScoreboardEntry, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load scoreboard", slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading scoreboard: %w", err)
	}

	entries := make([]model.ScoreboardEntry, 0, len(users))
	for _, u := range users {
		name := u.Name
		if name == "" {
			name = "No Name"
		}
		entries = append(entries, model.ScoreboardEntry{
			Name:           name,
			UserID:         u.UserID,
			Score:          u.Score, // already 0 when the formula is unset
			LastEditedTime: u.LastEditedTime,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].LastEditedTime.After(entries[j].LastEditedTime)
	})

	return entries, nil
}
