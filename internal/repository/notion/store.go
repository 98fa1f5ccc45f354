// Package notion implements the repository interfaces on top of the
// hosted database backend. Each entity lives in its own backend database;
// the property names below are the backend's column names and must match
// the workspace schema character for character — they are the wire
// contract, not internal naming.
package notion

import (
	notionapi "github.com/sakif/workshop-tracker/internal/notion"
	"github.com/sakif/workshop-tracker/internal/repository"
)

// User database properties.
const (
	propName           = "Name"
	propUserID         = "User ID"
	propGithubUsername = "Github username"
	propGithubSignup   = "Github signup"
	propNodeSetup      = "Node setup"
	propWebhookSetup   = "webhook setup"
	propWebhookURL     = "webhook url"
	propDemoAppSetup   = "demo app setup"
	propScore          = "Score"
)

// Progress ("chap2") database properties.
const (
	propUserRelation = "Pre Work Leaderboard"
	propMerchantID   = "MID"
	propAuthSuccess  = repository.ProgressFieldAuthSuccess
)

// Transaction database properties.
const (
	propTransactionID = "transactionId"
	propTxUserID      = "UserID"
	propSplitToken    = "SplitToken"
	propStatus        = "Status"
)

// Databases holds the backend database identifiers, one per entity.
type Databases struct {
	Users        string
	Progress     string
	Transactions string
}

// Store bundles the backend client with the database IDs and hands out
// the per-entity repositories. Mirrors how the server wires storage:
// one Store constructed at startup, accessors passed to services.
type Store struct {
	client *notionapi.Client
	dbs    Databases
}

func NewStore(client *notionapi.Client, dbs Databases) *Store {
	return &Store{client: client, dbs: dbs}
}

func (s *Store) Users() *UserStore {
	return &UserStore{client: s.client, databaseID: s.dbs.Users}
}

func (s *Store) Progress() *ProgressStore {
	return &ProgressStore{client: s.client, databaseID: s.dbs.Progress}
}

func (s *Store) Transactions() *TransactionStore {
	return &TransactionStore{client: s.client, databaseID: s.dbs.Transactions}
}
