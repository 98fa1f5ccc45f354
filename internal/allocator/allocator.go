// Package allocator produces the numeric user IDs handed out by
// POST /users.
//
// The backend has no auto-increment, so the server owns the counter: at
// startup it scans every user record and resumes from max+1. The counter
// is process-local and rebuilt on every restart.
//
// KNOWN LIMITATION (kept on purpose):
// If the boot scan fails, the allocator falls back to starting at 1 and
// the failure is only logged. A restart after a failed scan can therefore
// reissue IDs that are already live in the backend. The upstream
// deployment accepts this — a workshop rarely restarts mid-session — and
// the fallback keeps the server usable when the backend is briefly down
// at boot. Fixing it would need durable local state, which this system
// deliberately has none of.
package allocator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sakif/workshop-tracker/internal/model"
)

// UserLister is the one repository capability the boot scan needs.
type UserLister interface {
	ListAll(ctx context.Context) ([]model.User, error)
}

// Allocator hands out monotonically increasing user IDs. Safe for
// concurrent use: unlike the single-threaded event loop this design
// descends from, Go serves each request on its own goroutine, so the
// read-then-increment needs a mutex.
type Allocator struct {
	mu   sync.Mutex
	next int
}

// New builds an Allocator seeded from a full scan of the user database.
// Scan failure is non-fatal: the allocator starts at 1 and the error is
// logged (see the package comment for why this is best-effort).
func New(ctx context.Context, users UserLister, logger *slog.Logger) *Allocator {
	next := 1
	existing, err := users.ListAll(ctx)
	if err != nil {
		logger.Error("user ID scan failed, falling back to 1",
			slog.String("error", err.Error()),
		)
		return &Allocator{next: next}
	}

	for _, u := range existing {
		if u.UserID >= next {
			next = u.UserID + 1
		}
	}

	logger.Info("user ID allocator initialized",
		slog.Int("existing_users", len(existing)),
		slog.Int("next_id", next),
	)
	return &Allocator{next: next}
}

// Allocate returns the next user ID. IDs are unique within the process
// lifetime; there is no cross-restart guarantee.
func (a *Allocator) Allocate() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id
}
