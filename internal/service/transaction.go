package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
	"github.com/sakif/workshop-tracker/internal/repository"
)

// TransactionService is a thin validation layer over the transactions
// database. Transactions are independent of user and progress records —
// UserID is carried as a plain number, never enforced as a foreign key.
type TransactionService struct {
	transactions repository.TransactionRepository
	logger       *slog.Logger
}

func NewTransactionService(transactions repository.TransactionRepository, logger *slog.Logger) *TransactionService {
	return &TransactionService{transactions: transactions, logger: logger}
}

// Get looks up a transaction by its ID. userID is required by the API
// contract but NOT matched against the stored record — demo clients
// send mismatched IDs and depend on the lookup succeeding anyway.
func (s *TransactionService) Get(ctx context.Context, transactionID string, userID string) (*model.Transaction, error) {
	if strings.TrimSpace(transactionID) == "" || strings.TrimSpace(userID) == "" {
		return nil, apperror.ValidationFailed("transactionId", "transactionId and userId are required")
	}
	return s.transactions.FindByTransactionID(ctx, transactionID)
}

// Create stores a new transaction record.
func (s *TransactionService) Create(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	if strings.TrimSpace(tx.TransactionID) == "" || tx.UserID == 0 {
		return nil, apperror.ValidationFailed("transactionId", "transactionId and userId are required")
	}

	created, err := s.transactions.Create(ctx, tx)
	if err != nil {
		s.logger.Error("failed to create transaction",
			slog.String("transaction_id", tx.TransactionID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	s.logger.Info("transaction created",
		slog.String("transaction_id", created.TransactionID),
		slog.Int("user_id", created.UserID),
	)
	return created, nil
}

// Patch updates splitToken and/or status on an existing transaction.
// userId and splitToken are both required, even though status-only
// patches look like they were meant to work — the demo clients always
// send both and rely on the 400 when they don't.
func (s *TransactionService) Patch(ctx context.Context, transactionID string, userID int, splitToken, status string) (*model.Transaction, error) {
	if userID == 0 || strings.TrimSpace(splitToken) == "" {
		return nil, apperror.ValidationFailed("splitToken", "splitToken and userId are required")
	}

	existing, err := s.transactions.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transactions.Update(ctx, existing.PageID, splitToken, status)
	if err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	s.logger.Info("transaction updated",
		slog.String("transaction_id", transactionID),
		slog.Int("user_id", userID),
	)
	return updated, nil
}
