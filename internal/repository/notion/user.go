package notion

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
	notionapi "github.com/sakif/workshop-tracker/internal/notion"
)

// UserStore implements repository.UserRepository against the user database.
type UserStore struct {
	client     *notionapi.Client
	databaseID string
}

// Create stores a new user record with its allocator-assigned ID.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	page, err := s.client.CreatePage(ctx, s.databaseID, map[string]notionapi.Property{
		propName:   notionapi.TitleProp(user.Name),
		propUserID: notionapi.NumberProp(float64(user.UserID)),
	})
	if err != nil {
		return apperror.Upstream("error creating user in backend", err)
	}
	user.PageID = page.ID
	return nil
}

// FindByUserID resolves a user by numeric ID via a number-equality filter.
// Zero matches is a normal not-found outcome; only transport or API
// failures become upstream errors.
func (s *UserStore) FindByUserID(ctx context.Context, userID int) (*model.User, error) {
	equals := float64(userID)
	resp, err := s.client.Query(ctx, s.databaseID, &notionapi.Filter{
		Property: propUserID,
		Number:   &notionapi.NumberFilter{Equals: &equals},
	}, "")
	if err != nil {
		return nil, apperror.Upstream("error finding user in backend", err)
	}
	if len(resp.Results) == 0 {
		return nil, apperror.NotFound("user", strconv.Itoa(userID))
	}
	return pageToUser(resp.Results[0]), nil
}

// ListAll loads every user record. The backend paginates at 100 rows, so
// this follows cursors to exhaustion — required by both the allocator's
// boot scan and the scoreboard.
func (s *UserStore) ListAll(ctx context.Context) ([]model.User, error) {
	pages, err := s.client.QueryAll(ctx, s.databaseID, nil)
	if err != nil {
		return nil, apperror.Upstream("error listing users from backend", err)
	}
	users := make([]model.User, 0, len(pages))
	for _, page := range pages {
		users = append(users, *pageToUser(page))
	}
	return users, nil
}

func (s *UserStore) SetGithub(ctx context.Context, pageID, username string) error {
	_, err := s.client.UpdatePage(ctx, pageID, map[string]notionapi.Property{
		propGithubUsername: notionapi.RichTextProp(username),
		propGithubSignup:   notionapi.CheckboxProp(true),
	})
	if err != nil {
		return apperror.Upstream("error updating GitHub username in backend", err)
	}
	return nil
}

func (s *UserStore) MarkNodeSetup(ctx context.Context, pageID string) error {
	_, err := s.client.UpdatePage(ctx, pageID, map[string]notionapi.Property{
		propNodeSetup: notionapi.CheckboxProp(true),
	})
	if err != nil {
		return apperror.Upstream("error updating node setup in backend", err)
	}
	return nil
}

func (s *UserStore) MarkWebhookSetup(ctx context.Context, pageID, url string, demoApp bool) error {
	properties := map[string]notionapi.Property{
		propWebhookSetup: notionapi.CheckboxProp(true),
		propWebhookURL:   notionapi.URLProp(url),
	}
	if demoApp {
		properties[propDemoAppSetup] = notionapi.CheckboxProp(true)
	}
	if _, err := s.client.UpdatePage(ctx, pageID, properties); err != nil {
		return apperror.Upstream("error updating webhook setup in backend", err)
	}
	return nil
}

func (s *UserStore) AppendLog(ctx context.Context, pageID, text string) error {
	if err := s.client.AppendParagraph(ctx, pageID, text); err != nil {
		return apperror.Upstream(fmt.Sprintf("error appending log to page %s", pageID), err)
	}
	return nil
}

// pageToUser projects a backend page onto the domain struct. Hand-created
// rows can have blank cells, so every extractor tolerates absence.
func pageToUser(page notionapi.Page) *model.User {
	id, _ := page.Number(propUserID)
	return &model.User{
		PageID:         page.ID,
		UserID:         int(id),
		Name:           page.PlainText(propName),
		GithubUsername: page.PlainText(propGithubUsername),
		GithubSignup:   page.Checkbox(propGithubSignup),
		NodeSetup:      page.Checkbox(propNodeSetup),
		WebhookSetup:   page.Checkbox(propWebhookSetup),
		WebhookURL:     page.URLValue(propWebhookURL),
		DemoAppSetup:   page.Checkbox(propDemoAppSetup),
		Score:          int(page.FormulaNumber(propScore)),
		LastEditedTime: page.LastEditedTime,
	}
}
