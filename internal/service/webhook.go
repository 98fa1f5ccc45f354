package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/xid"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/repository"
)

// VerificationMessage is the fixed payload POSTed to the participant's
// webhook URL. Participants assert on this exact text in their tunnel
// logs, so it must not change.
const VerificationMessage = "This is a test webhook from the server to verify webhook is working properly!"

// WebhookService verifies participant webhook endpoints.
//
// FIRE AND FORGET:
// Schedule returns as soon as the one-shot timer is armed; the caller's
// HTTP response goes out before the verification runs. The delayed
// outcome is visible only as side effects on the user record — the
// participant watches their Notion row, not an API response. Once armed,
// a task cannot be cancelled, carries no handle, and is never retried.
// Many tasks may be in flight at once with no ordering between them.
type WebhookService struct {
	users      repository.UserRepository
	httpClient *http.Client
	logger     *slog.Logger

	// afterFunc arms the delayed task; swapped in tests to run
	// synchronously. Defaults to time.AfterFunc.
	afterFunc func(d time.Duration, f func())
}

func NewWebhookService(users repository.UserRepository, httpClient *http.Client, logger *slog.Logger) *WebhookService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &WebhookService{
		users:      users,
		httpClient: httpClient,
		logger:     logger,
		afterFunc:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Schedule validates the request and the user synchronously, then arms
// the deferred verification. The returned error covers only scheduling:
// a missing user is reported now, a dead webhook URL is not.
func (s *WebhookService) Schedule(ctx context.Context, userID int, webhookURL string, delaySeconds int, demoAppID string) error {
	if strings.TrimSpace(webhookURL) == "" || delaySeconds <= 0 {
		return apperror.ValidationFailed("webhookUrl", "webhook URL and delaySeconds are required.")
	}

	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	taskID := xid.New().String()
	s.afterFunc(time.Duration(delaySeconds)*time.Second, func() {
		s.verify(taskID, user.PageID, webhookURL, demoAppID)
	})

	s.logger.Info("webhook verification scheduled",
		slog.String("task_id", taskID),
		slog.Int("user_id", userID),
		slog.String("webhook_url", webhookURL),
		slog.Int("delay_seconds", delaySeconds),
	)
	return nil
}

// verify runs on the timer goroutine, after the originating request has
// completed, so it uses a background context. Outcomes branch three ways:
//
//   - delivered (2xx): mark webhook setup complete, store the URL, and —
//     when a demo app was named — tick the demo checkbox and append a
//     log block to the page.
//   - rejected with 400 or 405: the endpoint is reachable, it just
//     dislikes our probe body (common for strictly-validating handlers),
//     so STILL mark setup complete and store the URL. This leniency is
//     deliberate; reachable-therefore-configured is the check.
//   - anything else (network error, timeout, other status): log and
//     leave the record untouched. Single shot, no retry.
func (s *WebhookService) verify(taskID, pageID, webhookURL, demoAppID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := s.logger.With(
		slog.String("task_id", taskID),
		slog.String("webhook_url", webhookURL),
	)

	status, err := s.post(ctx, webhookURL)
	switch {
	case err == nil && status >= 200 && status < 300:
		if err := s.users.MarkWebhookSetup(ctx, pageID, webhookURL, demoAppID != ""); err != nil {
			log.Error("webhook delivered but record update failed", slog.String("error", err.Error()))
			return
		}
		if demoAppID != "" {
			logText := fmt.Sprintf("log: sample app running at %s\n\non platform %s",
				time.Now().UTC().Format(time.RFC3339), demoAppID)
			if err := s.users.AppendLog(ctx, pageID, logText); err != nil {
				log.Error("failed to append demo app log", slog.String("error", err.Error()))
			}
		}
		log.Info("webhook verified", slog.Int("status", status))

	case err == nil && (status == http.StatusBadRequest || status == http.StatusMethodNotAllowed):
		if err := s.users.MarkWebhookSetup(ctx, pageID, webhookURL, false); err != nil {
			log.Error("webhook reachable but record update failed", slog.String("error", err.Error()))
			return
		}
		log.Warn("webhook rejected the probe but is reachable, marking setup complete",
			slog.Int("status", status))

	case err != nil:
		log.Error("webhook verification failed", slog.String("error", err.Error()))

	default:
		log.Error("webhook verification failed", slog.Int("status", status))
	}
}

// post sends the fixed probe payload and returns the target's status.
func (s *WebhookService) post(ctx context.Context, webhookURL string) (int, error) {
	payload, err := json.Marshal(map[string]string{"message": VerificationMessage})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
