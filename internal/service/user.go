// Package service contains the business logic layer of the tracker.
//
// The split mirrors the HTTP surface: user lifecycle, merchant/progress
// registration, scoreboard, transactions, and the deferred webhook
// verifier each get their own service type. Every service depends on
// repository interfaces (never on the backend client), returns domain
// errors from apperror, and accepts primitives — no HTTP types below the
// handler layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
	"github.com/sakif/workshop-tracker/internal/repository"
)

// IdentityValidator is the one capability we need from the GitHub client.
// An interface so service tests can fake the identity service.
type IdentityValidator interface {
	ValidateUsername(ctx context.Context, username string) error
}

// IDAllocator hands out the next user ID. Implemented by
// allocator.Allocator.
type IDAllocator interface {
	Allocate() int
}

// UserService handles participant lifecycle: creation, lookup, the GitHub
// signup check, and the Node toolchain check.
type UserService struct {
	users    repository.UserRepository
	alloc    IDAllocator
	identity IdentityValidator
	logger   *slog.Logger
}

func NewUserService(users repository.UserRepository, alloc IDAllocator, identity IdentityValidator, logger *slog.Logger) *UserService {
	return &UserService{
		users:    users,
		alloc:    alloc,
		identity: identity,
		logger:   logger,
	}
}

// Create allocates a user ID and stores a new participant record.
func (s *UserService) Create(ctx context.Context, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "Name is required.")
	}

	user := &model.User{
		UserID: s.alloc.Allocate(),
		Name:   name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("name", name),
			slog.Int("user_id", user.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int("user_id", user.UserID),
		slog.String("name", user.Name),
	)
	return user, nil
}

// Get resolves a participant by numeric ID.
func (s *UserService) Get(ctx context.Context, userID int) (*model.User, error) {
	return s.users.FindByUserID(ctx, userID)
}

// SubmitGithub validates the username against the identity service, then
// records it. Validation happens FIRST: a typo'd username comes back as
// a 400 even when the user ID does not exist.
func (s *UserService) SubmitGithub(ctx context.Context, userID int, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperror.ValidationFailed("githubUsername", "GitHub username is required.")
	}

	if err := s.identity.ValidateUsername(ctx, username); err != nil {
		return fmt.Errorf("validating GitHub username: %w", err)
	}

	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.SetGithub(ctx, user.PageID, username); err != nil {
		s.logger.Error("failed to record GitHub signup",
			slog.Int("user_id", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("recording GitHub signup: %w", err)
	}

	s.logger.Info("github signup recorded",
		slog.Int("user_id", userID),
		slog.String("github_username", username),
	)
	return nil
}

// NodeCheck appends a timestamped toolchain log entry to the user's page
// content and ticks the Node setup checkbox.
func (s *UserService) NodeCheck(ctx context.Context, userID int, nodeVersion, npmVersion string) error {
	if strings.TrimSpace(nodeVersion) == "" || strings.TrimSpace(npmVersion) == "" {
		return apperror.ValidationFailed("nodeVersion", "Node version and npm version are required.")
	}

	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	logText := fmt.Sprintf("log: user submitted node-check at %s\nnode version: %s\nnpm version: %s\n----------",
		time.Now().UTC().Format(time.RFC3339), nodeVersion, npmVersion)

	if err := s.users.AppendLog(ctx, user.PageID, logText); err != nil {
		return fmt.Errorf("appending node-check log: %w", err)
	}
	if err := s.users.MarkNodeSetup(ctx, user.PageID); err != nil {
		return fmt.Errorf("marking node setup: %w", err)
	}

	s.logger.Info("node check recorded",
		slog.Int("user_id", userID),
		slog.String("node_version", nodeVersion),
		slog.String("npm_version", npmVersion),
	)
	return nil
}
