package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
)

// Hand-written in-memory mocks for the repository interfaces. They store
// entities in maps and can be primed with errors to simulate a failing
// backend — no network, no backend, microsecond tests.

type mockUserRepo struct {
	users    map[int]*model.User // keyed by UserID
	logs     map[string][]string // pageID → appended log blocks
	nextPage int

	createErr error
	listErr   error
	markErr   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users: make(map[int]*model.User),
		logs:  make(map[string][]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextPage++
	user.PageID = fmt.Sprintf("page-%d", m.nextPage)
	stored := *user
	m.users[user.UserID] = &stored
	return nil
}

func (m *mockUserRepo) FindByUserID(_ context.Context, userID int) (*model.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("user", strconv.Itoa(userID))
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) byPageID(pageID string) *model.User {
	for _, u := range m.users {
		if u.PageID == pageID {
			return u
		}
	}
	return nil
}

func (m *mockUserRepo) SetGithub(_ context.Context, pageID, username string) error {
	if m.markErr != nil {
		return m.markErr
	}
	if u := m.byPageID(pageID); u != nil {
		u.GithubUsername = username
		u.GithubSignup = true
	}
	return nil
}

func (m *mockUserRepo) MarkNodeSetup(_ context.Context, pageID string) error {
	if m.markErr != nil {
		return m.markErr
	}
	if u := m.byPageID(pageID); u != nil {
		u.NodeSetup = true
	}
	return nil
}

func (m *mockUserRepo) MarkWebhookSetup(_ context.Context, pageID, url string, demoApp bool) error {
	if m.markErr != nil {
		return m.markErr
	}
	if u := m.byPageID(pageID); u != nil {
		u.WebhookSetup = true
		u.WebhookURL = url
		if demoApp {
			u.DemoAppSetup = true
		}
	}
	return nil
}

func (m *mockUserRepo) AppendLog(_ context.Context, pageID, text string) error {
	m.logs[pageID] = append(m.logs[pageID], text)
	return nil
}

type mockProgressRepo struct {
	records     map[string]*model.Progress // keyed by UserPageID
	createCalls int
	findErr     error
	updated     map[string]bool // "pageID/property" → last value
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{
		records: make(map[string]*model.Progress),
		updated: make(map[string]bool),
	}
}

func (m *mockProgressRepo) FindByUserPage(_ context.Context, userPageID string) (*model.Progress, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	record, ok := m.records[userPageID]
	if !ok {
		return nil, nil
	}
	result := *record
	return &result, nil
}

func (m *mockProgressRepo) Create(_ context.Context, progress *model.Progress) error {
	m.createCalls++
	progress.PageID = fmt.Sprintf("progress-page-%d", m.createCalls)
	stored := *progress
	m.records[progress.UserPageID] = &stored
	return nil
}

func (m *mockProgressRepo) UpdateCheckbox(_ context.Context, pageID, property string, value bool) error {
	m.updated[pageID+"/"+property] = value
	for _, r := range m.records {
		if r.PageID == pageID && property == "auth success" {
			r.AuthSuccess = value
		}
	}
	return nil
}

type mockTransactionRepo struct {
	transactions map[string]*model.Transaction // keyed by TransactionID
	nextPage     int
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{transactions: make(map[string]*model.Transaction)}
}

func (m *mockTransactionRepo) FindByTransactionID(_ context.Context, transactionID string) (*model.Transaction, error) {
	tx, ok := m.transactions[transactionID]
	if !ok {
		return nil, apperror.NotFound("transaction", transactionID)
	}
	result := *tx
	return &result, nil
}

func (m *mockTransactionRepo) Create(_ context.Context, tx *model.Transaction) (*model.Transaction, error) {
	m.nextPage++
	tx.PageID = fmt.Sprintf("tx-page-%d", m.nextPage)
	stored := *tx
	m.transactions[tx.TransactionID] = &stored
	result := stored
	return &result, nil
}

func (m *mockTransactionRepo) Update(_ context.Context, pageID, splitToken, status string) (*model.Transaction, error) {
	for _, tx := range m.transactions {
		if tx.PageID == pageID {
			if splitToken != "" {
				tx.SplitToken = splitToken
			}
			if status != "" {
				tx.Status = status
			}
			result := *tx
			return &result, nil
		}
	}
	return nil, apperror.NotFound("transaction", pageID)
}

// mockIdentity fakes the GitHub lookup.
type mockIdentity struct {
	err error
}

func (m *mockIdentity) ValidateUsername(_ context.Context, _ string) error {
	return m.err
}

// fixedAllocator always hands out sequential IDs from a known start.
type fixedAllocator struct {
	next int
}

func (a *fixedAllocator) Allocate() int {
	a.next++
	return a.next - 1
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
