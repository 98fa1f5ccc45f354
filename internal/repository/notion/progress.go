package notion

import (
	"context"
	"fmt"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
	notionapi "github.com/sakif/workshop-tracker/internal/notion"
)

// ProgressStore implements repository.ProgressRepository against the
// chapter-2 database.
type ProgressStore struct {
	client     *notionapi.Client
	databaseID string
}

// FindByUserPage queries by relation containment on the user's page ID.
// (nil, nil) means no progress record exists yet, which is the normal
// state until the participant registers a merchant.
func (s *ProgressStore) FindByUserPage(ctx context.Context, userPageID string) (*model.Progress, error) {
	resp, err := s.client.Query(ctx, s.databaseID, &notionapi.Filter{
		Property: propUserRelation,
		Relation: &notionapi.RelationFilter{Contains: userPageID},
	}, "")
	if err != nil {
		return nil, apperror.Upstream("error finding progress record in backend", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return pageToProgress(resp.Results[0]), nil
}

// Create stores a new progress record linked to the user's page. The
// backend has no unique constraint on the relation, so uniqueness is the
// caller's re-check, not ours.
func (s *ProgressStore) Create(ctx context.Context, progress *model.Progress) error {
	page, err := s.client.CreatePage(ctx, s.databaseID, map[string]notionapi.Property{
		propName:         notionapi.TitleProp(progress.Name),
		propUserRelation: notionapi.RelationProp(progress.UserPageID),
		propMerchantID:   notionapi.NumberProp(float64(progress.MerchantID)),
	})
	if err != nil {
		return apperror.Upstream("error creating progress record in backend", err)
	}
	progress.PageID = page.ID
	return nil
}

// UpdateCheckbox patches one checkbox property — only checkboxes are
// ever patched on this record.
func (s *ProgressStore) UpdateCheckbox(ctx context.Context, pageID, property string, value bool) error {
	_, err := s.client.UpdatePage(ctx, pageID, map[string]notionapi.Property{
		property: notionapi.CheckboxProp(value),
	})
	if err != nil {
		return apperror.Upstream(fmt.Sprintf("error updating %q on progress record", property), err)
	}
	return nil
}

func pageToProgress(page notionapi.Page) *model.Progress {
	mid, _ := page.Number(propMerchantID)
	progress := &model.Progress{
		PageID:      page.ID,
		Name:        page.PlainText(propName),
		MerchantID:  int(mid),
		AuthSuccess: page.Checkbox(propAuthSuccess),
	}
	if ids := page.RelationIDs(propUserRelation); len(ids) > 0 {
		progress.UserPageID = ids[0]
	}
	return progress
}
