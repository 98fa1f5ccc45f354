package handler_test

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
)

// In-memory repositories backing real service instances. Handler tests
// go through the full handler→service path so they exercise the error
// mapping exactly as a live request would.

type mockUserRepo struct {
	users     map[int]*model.User
	createErr error
	listErr   error
}

func newMockUserRepo(users ...*model.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[int]*model.User)}
	for _, u := range users {
		m.users[u.UserID] = u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.PageID = "page-created"
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) FindByUserID(ctx context.Context, userID int) (*model.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("user", strconv.Itoa(userID))
	}
	return u, nil
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) SetGithub(ctx context.Context, pageID, username string) error {
	for _, u := range m.users {
		if u.PageID == pageID {
			u.GithubUsername = username
			u.GithubSignup = true
		}
	}
	return nil
}

func (m *mockUserRepo) MarkNodeSetup(ctx context.Context, pageID string) error   { return nil }
func (m *mockUserRepo) AppendLog(ctx context.Context, pageID, text string) error { return nil }
func (m *mockUserRepo) MarkWebhookSetup(ctx context.Context, pageID, url string, demoApp bool) error {
	return nil
}

type mockProgressRepo struct {
	records map[string]*model.Progress // keyed by user page ID
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{records: make(map[string]*model.Progress)}
}

func (m *mockProgressRepo) FindByUserPage(ctx context.Context, userPageID string) (*model.Progress, error) {
	return m.records[userPageID], nil
}

func (m *mockProgressRepo) Create(ctx context.Context, progress *model.Progress) error {
	progress.PageID = "progress-" + progress.UserPageID
	m.records[progress.UserPageID] = progress
	return nil
}

func (m *mockProgressRepo) UpdateCheckbox(ctx context.Context, pageID, property string, value bool) error {
	for _, p := range m.records {
		if p.PageID == pageID && value {
			p.AuthSuccess = true
		}
	}
	return nil
}

type mockTransactionRepo struct {
	txs map[string]*model.Transaction
}

func newMockTransactionRepo(txs ...*model.Transaction) *mockTransactionRepo {
	m := &mockTransactionRepo{txs: make(map[string]*model.Transaction)}
	for _, tx := range txs {
		m.txs[tx.TransactionID] = tx
	}
	return m
}

func (m *mockTransactionRepo) FindByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	tx, ok := m.txs[transactionID]
	if !ok {
		return nil, apperror.NotFound("transaction", transactionID)
	}
	return tx, nil
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	stored := *tx
	stored.PageID = "tx-page-" + tx.TransactionID
	m.txs[tx.TransactionID] = &stored
	return &stored, nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, pageID, splitToken, status string) (*model.Transaction, error) {
	for _, tx := range m.txs {
		if tx.PageID == pageID {
			if splitToken != "" {
				tx.SplitToken = splitToken
			}
			if status != "" {
				tx.Status = status
			}
			return tx, nil
		}
	}
	return nil, apperror.NotFound("transaction", pageID)
}

// mockIdentity approves or rejects every username uniformly.
type mockIdentity struct {
	err error
}

func (m *mockIdentity) ValidateUsername(ctx context.Context, username string) error {
	return m.err
}

// seqAllocator hands out sequential IDs starting from next.
type seqAllocator struct {
	next int
}

func (a *seqAllocator) Allocate() int {
	id := a.next
	a.next++
	return id
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}
