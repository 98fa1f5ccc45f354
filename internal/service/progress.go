package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
	"github.com/sakif/workshop-tracker/internal/repository"
)

// ProgressService handles chapter 2: merchant registration and the
// transaction-authorization callback.
type ProgressService struct {
	users    repository.UserRepository
	progress repository.ProgressRepository
	logger   *slog.Logger
}

func NewProgressService(users repository.UserRepository, progress repository.ProgressRepository, logger *slog.Logger) *ProgressService {
	return &ProgressService{
		users:    users,
		progress: progress,
		logger:   logger,
	}
}

// FindWithProgress resolves a user and their progress record, if any.
// A missing user is an error; a missing progress record is not (nil).
func (s *ProgressService) FindWithProgress(ctx context.Context, userID int) (*model.User, *model.Progress, error) {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	progress, err := s.progress.FindByUserPage(ctx, user.PageID)
	if err != nil {
		return nil, nil, err
	}
	return user, progress, nil
}

// RegisterMerchant creates the user's progress record. At most one may
// exist per user, enforced by re-checking before the create. The
// check-then-create is NOT atomic — the backend offers no
// compare-and-swap — so two simultaneous registrations for one user can
// still race through. Accepted: a participant registering their own
// merchant twice in the same instant is not a scenario the workshop
// defends against.
func (s *ProgressService) RegisterMerchant(ctx context.Context, userID int, merchantID, merchantType string) (*model.Progress, error) {
	merchantType = strings.TrimSpace(merchantType)
	if !model.ValidMerchantType(merchantType) {
		return nil, apperror.ValidationFailed("merchantType",
			fmt.Sprintf("merchantType must be %q or %q", model.MerchantGaming, model.MerchantBiller))
	}
	mid, err := strconv.Atoi(strings.TrimSpace(merchantID))
	if err != nil {
		return nil, apperror.ValidationFailed("merchantId", "merchantId must be a number")
	}

	user, existing, err := s.FindWithProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict(
			fmt.Sprintf("a merchant record already exists for user %d", userID))
	}

	progress := &model.Progress{
		Name:       fmt.Sprintf("%s_%s", user.FirstName(), merchantType),
		UserPageID: user.PageID,
		MerchantID: mid,
		Merchant:   model.MerchantType(merchantType),
	}
	if err := s.progress.Create(ctx, progress); err != nil {
		s.logger.Error("failed to create merchant record",
			slog.Int("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating merchant record: %w", err)
	}

	s.logger.Info("merchant registered",
		slog.Int("user_id", userID),
		slog.Int("merchant_id", mid),
		slog.String("merchant_type", merchantType),
	)
	return progress, nil
}

// AuthorizeReturn handles the establish-return-cancel callback: only a
// status of "2" (the gateway's success code) flips the authorization
// checkbox; every other status is rejected outright.
func (s *ProgressService) AuthorizeReturn(ctx context.Context, userID int, transactionID, status string) error {
	if status != "2" {
		return apperror.ValidationFailed("status", "status must be 2")
	}
	if strings.TrimSpace(transactionID) == "" {
		return apperror.ValidationFailed("transactionId", "transactionId is required")
	}

	_, progress, err := s.FindWithProgress(ctx, userID)
	if err != nil {
		return err
	}
	if progress == nil {
		return apperror.NotFound("merchant record for user", strconv.Itoa(userID))
	}

	if err := s.progress.UpdateCheckbox(ctx, progress.PageID, repository.ProgressFieldAuthSuccess, true); err != nil {
		return fmt.Errorf("recording authorization: %w", err)
	}

	s.logger.Info("transaction authorization recorded",
		slog.Int("user_id", userID),
		slog.String("transaction_id", transactionID),
	)
	return nil
}
