package notion

import (
	"context"

	"github.com/sakif/workshop-tracker/internal/apperror"
	"github.com/sakif/workshop-tracker/internal/model"
	notionapi "github.com/sakif/workshop-tracker/internal/notion"
)

// TransactionStore implements repository.TransactionRepository against
// the transactions database.
type TransactionStore struct {
	client     *notionapi.Client
	databaseID string
}

// FindByTransactionID resolves a transaction via title-equality filter.
func (s *TransactionStore) FindByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	resp, err := s.client.Query(ctx, s.databaseID, &notionapi.Filter{
		Property: propTransactionID,
		Title:    &notionapi.TextFilter{Equals: transactionID},
	}, "")
	if err != nil {
		return nil, apperror.Upstream("error retrieving transaction from backend", err)
	}
	if len(resp.Results) == 0 {
		return nil, apperror.NotFound("transaction", transactionID)
	}
	return pageToTransaction(resp.Results[0]), nil
}

func (s *TransactionStore) Create(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	properties := map[string]notionapi.Property{
		propTransactionID: notionapi.TitleProp(tx.TransactionID),
		propTxUserID:      notionapi.NumberProp(float64(tx.UserID)),
	}
	if tx.Status != "" {
		properties[propStatus] = notionapi.SelectProp(tx.Status)
	}
	if tx.SplitToken != "" {
		properties[propSplitToken] = notionapi.RichTextProp(tx.SplitToken)
	}
	page, err := s.client.CreatePage(ctx, s.databaseID, properties)
	if err != nil {
		return nil, apperror.Upstream("error creating transaction in backend", err)
	}
	return pageToTransaction(*page), nil
}

// Update patches splitToken and/or status; empty strings leave the
// property unchanged.
func (s *TransactionStore) Update(ctx context.Context, pageID, splitToken, status string) (*model.Transaction, error) {
	properties := map[string]notionapi.Property{}
	if splitToken != "" {
		properties[propSplitToken] = notionapi.RichTextProp(splitToken)
	}
	if status != "" {
		properties[propStatus] = notionapi.SelectProp(status)
	}
	page, err := s.client.UpdatePage(ctx, pageID, properties)
	if err != nil {
		return nil, apperror.Upstream("error updating transaction in backend", err)
	}
	return pageToTransaction(*page), nil
}

func pageToTransaction(page notionapi.Page) *model.Transaction {
	userID, _ := page.Number(propTxUserID)
	return &model.Transaction{
		PageID:        page.ID,
		TransactionID: page.PlainText(propTransactionID),
		UserID:        int(userID),
		SplitToken:    page.PlainText(propSplitToken),
		Status:        page.SelectName(propStatus),
	}
}
