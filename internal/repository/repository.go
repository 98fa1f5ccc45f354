// Package repository defines the storage interfaces consumed by the
// service layer. The only real implementation talks to the hosted
// database backend (repository/notion); tests substitute in-memory mocks.
// Services depend on these interfaces, never on the backend client.
package repository

import (
	"context"

	"github.com/sakif/workshop-tracker/internal/model"
)

// UserRepository manages participant records.
type UserRepository interface {
	// Create stores a new user record. Name and UserID must be set;
	// PageID is filled in from the backend's response.
	Create(ctx context.Context, user *model.User) error

	// FindByUserID resolves a user by the allocator-assigned numeric ID.
	// Returns apperror.ErrNotFound when no record matches — that is a
	// normal outcome, distinct from a backend failure.
	FindByUserID(ctx context.Context, userID int) (*model.User, error)

	// ListAll loads every user record, following the backend's
	// continuation cursors to exhaustion.
	ListAll(ctx context.Context) ([]model.User, error)

	// SetGithub records a validated GitHub username and ticks the
	// signup checkbox.
	SetGithub(ctx context.Context, pageID, username string) error

	// MarkNodeSetup ticks the Node toolchain checkbox.
	MarkNodeSetup(ctx context.Context, pageID string) error

	// MarkWebhookSetup ticks the webhook checkbox and stores the URL;
	// when demoApp is true the demo-app checkbox is ticked too.
	MarkWebhookSetup(ctx context.Context, pageID, url string, demoApp bool) error

	// AppendLog appends one paragraph to the record's content. The page
	// body serves as an append-only activity log.
	AppendLog(ctx context.Context, pageID, text string) error
}

// ProgressFieldAuthSuccess is the backend property patched when the
// gateway's return callback confirms an authorization.
const ProgressFieldAuthSuccess = "auth success"

// ProgressRepository manages the per-user chapter-2 records.
type ProgressRepository interface {
	// FindByUserPage returns the first progress record whose relation
	// contains the given user page, or (nil, nil) when none exists.
	// "No record yet" is an expected state for most of the workshop,
	// so it is not an error.
	FindByUserPage(ctx context.Context, userPageID string) (*model.Progress, error)

	// Create stores a new progress record. PageID is filled in.
	// Uniqueness per user is NOT enforced here — the backend has no
	// unique constraint — the service layer re-checks before calling.
	Create(ctx context.Context, progress *model.Progress) error

	// UpdateCheckbox patches a single checkbox property on a progress
	// record. No optimistic concurrency control.
	UpdateCheckbox(ctx context.Context, pageID, property string, value bool) error
}

// TransactionRepository manages demo transaction records.
type TransactionRepository interface {
	// FindByTransactionID resolves a transaction by its title key.
	// Returns apperror.ErrNotFound when absent.
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error)

	// Create stores a new transaction record and returns the stored
	// projection.
	Create(ctx context.Context, tx *model.Transaction) (*model.Transaction, error)

	// Update patches splitToken and/or status on an existing record
	// (empty string means "leave unchanged") and returns the updated
	// projection.
	Update(ctx context.Context, pageID, splitToken, status string) (*model.Transaction, error)
}
