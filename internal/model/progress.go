package model

// MerchantType is the kind of demo merchant a participant registers in
// chapter 2. The backend stores it in the record title, not as its own
// property, so the enum is enforced here rather than by the schema.
type MerchantType string

const (
	MerchantGaming MerchantType = "gaming"
	MerchantBiller MerchantType = "biller"
)

// ValidMerchantType reports whether s is one of the recognised merchant
// types. Comparison is exact: the workshop instructions tell participants
// to send the lowercase value.
func ValidMerchantType(s string) bool {
	switch MerchantType(s) {
	case MerchantGaming, MerchantBiller:
		return true
	}
	return false
}

// Progress is the per-user chapter-2 record: merchant registration state
// plus the transaction-authorization outcome. At most one exists per user.
type Progress struct {
	PageID      string       `json:"-"`
	Name        string       `json:"name"` // "<firstName>_<merchantType>"
	UserPageID  string       `json:"-"`    // relation back to the user page
	MerchantID  int          `json:"merchantId"`
	AuthSuccess bool         `json:"authorizationSucceeded"`
	Merchant    MerchantType `json:"merchantType,omitempty"`
}
