package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
)

func newTestProgressService() (*ProgressService, *mockUserRepo, *mockProgressRepo) {
	users := newMockUserRepo()
	progress := newMockProgressRepo()
	svc := NewProgressService(users, progress, testLogger())
	return svc, users, progress
}

func seedUser(t *testing.T, users *mockUserRepo, userID int, name string) *model.User {
	t.Helper()
	user := &model.User{UserID: userID, Name: name}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

func TestRegisterMerchant_CreatesRecord(t *testing.T) {
	svc, users, progressRepo := newTestProgressService()
	seedUser(t, users, 1, "Ada Lovelace")

	progress, err := svc.RegisterMerchant(context.Background(), 1, "42", "gaming")
	if err != nil {
		t.Fatalf("RegisterMerchant() error = %v", err)
	}

	if progress.Name != "Ada_gaming" {
		t.Errorf("record name = %q, want %q (first name + merchant type)", progress.Name, "Ada_gaming")
	}
	if progress.MerchantID != 42 {
		t.Errorf("MerchantID = %d, want 42", progress.MerchantID)
	}
	if progressRepo.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", progressRepo.createCalls)
	}
}

func TestRegisterMerchant_SecondRegistrationConflicts(t *testing.T) {
	svc, users, progressRepo := newTestProgressService()
	seedUser(t, users, 1, "Ada Lovelace")

	if _, err := svc.RegisterMerchant(context.Background(), 1, "42", "gaming"); err != nil {
		t.Fatalf("first RegisterMerchant() error = %v", err)
	}

	_, err := svc.RegisterMerchant(context.Background(), 1, "43", "biller")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second RegisterMerchant() error = %v, want ErrConflict", err)
	}
	if progressRepo.createCalls != 1 {
		t.Errorf("create calls = %d, want 1 — the duplicate must perform no write", progressRepo.createCalls)
	}
}

func TestRegisterMerchant_Validation(t *testing.T) {
	svc, users, _ := newTestProgressService()
	seedUser(t, users, 1, "Ada Lovelace")

	tests := []struct {
		name         string
		merchantID   string
		merchantType string
	}{
		{"unknown merchant type", "42", "casino"},
		{"uppercase merchant type rejected", "42", "Gaming"},
		{"non-numeric merchant id", "forty-two", "gaming"},
		{"empty merchant id", "", "biller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterMerchant(context.Background(), 1, tt.merchantID, tt.merchantType)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("RegisterMerchant(%q, %q) error = %v, want ErrValidation",
					tt.merchantID, tt.merchantType, err)
			}
		})
	}
}

func TestRegisterMerchant_UnknownUser(t *testing.T) {
	svc, _, _ := newTestProgressService()

	_, err := svc.RegisterMerchant(context.Background(), 7, "42", "gaming")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("RegisterMerchant() error = %v, want ErrNotFound", err)
	}
}

func TestFindWithProgress_NoRecordIsNotAnError(t *testing.T) {
	svc, users, _ := newTestProgressService()
	seedUser(t, users, 1, "Ada Lovelace")

	user, progress, err := svc.FindWithProgress(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindWithProgress() error = %v", err)
	}
	if user == nil {
		t.Fatal("user = nil, want the resolved user")
	}
	if progress != nil {
		t.Errorf("progress = %+v, want nil before registration", progress)
	}
}

func TestAuthorizeReturn_FlipsAuthSuccess(t *testing.T) {
	svc, users, progressRepo := newTestProgressService()
	seedUser(t, users, 1, "Ada Lovelace")
	if _, err := svc.RegisterMerchant(context.Background(), 1, "42", "gaming"); err != nil {
		t.Fatal(err)
	}

	if err := svc.AuthorizeReturn(context.Background(), 1, "tx-123", "2"); err != nil {
		t.Fatalf("AuthorizeReturn() error = %v", err)
	}

	record := progressRepo.records["page-1"]
	if record == nil || !record.AuthSuccess {
		t.Error("AuthSuccess = false, want true after status 2 callback")
	}
}

func TestAuthorizeReturn_RejectsOtherStatuses(t *testing.T) {
	svc, users, _ := newTestProgressService()
	seedUser(t, users, 1, "Ada Lovelace")

	for _, status := range []string{"", "1", "0", "success"} {
		if err := svc.AuthorizeReturn(context.Background(), 1, "tx-123", status); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("AuthorizeReturn(status=%q) error = %v, want ErrValidation", status, err)
		}
	}
}

func TestAuthorizeReturn_NoMerchantRecordIsNotFound(t *testing.T) {
	svc, users, _ := newTestProgressService()
	seedUser(t, users, 1, "Ada Lovelace")

	err := svc.AuthorizeReturn(context.Background(), 1, "tx-123", "2")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("AuthorizeReturn() error = %v, want ErrNotFound without a merchant record", err)
	}
}
