package model

// Transaction mirrors one row of the transactions database. The title
// property doubles as the lookup key, and UserID is a plain number — the
// backend cannot enforce it as a foreign key, so nothing here does either.
type Transaction struct {
	PageID        string `json:"-"`
	TransactionID string `json:"transactionId"`
	UserID        int    `json:"userId"`
	SplitToken    string `json:"splitToken,omitempty"`
	Status        string `json:"status,omitempty"` // open set, constrained only by the backend's select options
}
