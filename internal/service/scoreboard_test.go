package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
)

func TestScoreboard_OrdersByScoreThenRecency(t *testing.T) {
	users := newMockUserRepo()
	base := time.Unix(0, 0)
	users.users = map[int]*model.User{
		1: {UserID: 1, Name: "first", Score: 10, LastEditedTime: base.Add(100 * time.Second)},
		2: {UserID: 2, Name: "second", Score: 10, LastEditedTime: base.Add(200 * time.Second)},
		3: {UserID: 3, Name: "third", Score: 5, LastEditedTime: base.Add(300 * time.Second)},
	}
	svc := NewScoreboardService(users, testLogger())

	entries, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// Equal scores rank by most recent edit first, so the order is the
	// t=200 row, then t=100, then the lower score regardless of recency.
	wantIDs := []int{2, 1, 3}
	if len(entries) != len(wantIDs) {
		t.Fatalf("got %d entries, want %d", len(entries), len(wantIDs))
	}
	for i, want := range wantIDs {
		if entries[i].UserID != want {
			t.Errorf("entries[%d].UserID = %d, want %d", i, entries[i].UserID, want)
		}
	}
}

func TestScoreboard_DefaultsForBlankRows(t *testing.T) {
	users := newMockUserRepo()
	users.users = map[int]*model.User{
		1: {UserID: 1}, // hand-created row: no name, no score
	}
	svc := NewScoreboardService(users, testLogger())

	entries, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if entries[0].Name != "No Name" {
		t.Errorf("Name = %q, want placeholder %q", entries[0].Name, "No Name")
	}
	if entries[0].Score != 0 {
		t.Errorf("Score = %d, want 0", entries[0].Score)
	}
}

func TestScoreboard_BackendFailurePropagates(t *testing.T) {
	users := newMockUserRepo()
	users.listErr = apperror.Upstream("error listing users from backend", errors.New("boom"))
	svc := NewScoreboardService(users, testLogger())

	_, err := svc.Compute(context.Background())
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("Compute() error = %v, want ErrUpstream", err)
	}
}
