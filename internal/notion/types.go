package notion

import "time"

// The backend's wire format is a tagged union: every property value is an
// object whose populated field depends on the property's configured type.
// Rather than one Go type per property type, Property carries pointers for
// each variant we use — nil means "not this kind" (and for Number, a nil
// pointer also distinguishes an unset number from a stored zero).

// Property is a single page property value, for both reads and writes.
type Property struct {
	Title    []RichText     `json:"title,omitempty"`
	RichText []RichText     `json:"rich_text,omitempty"`
	Number   *float64       `json:"number,omitempty"`
	Checkbox *bool          `json:"checkbox,omitempty"`
	URL      *string        `json:"url,omitempty"`
	Select   *SelectOption  `json:"select,omitempty"`
	Relation []RelationRef  `json:"relation,omitempty"`
	Formula  *FormulaResult `json:"formula,omitempty"`
}

// RichText is one fragment of a title or rich_text property.
type RichText struct {
	Type      string    `json:"type,omitempty"`
	Text      *TextBody `json:"text,omitempty"`
	PlainText string    `json:"plain_text,omitempty"`
}

type TextBody struct {
	Content string `json:"content"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type RelationRef struct {
	ID string `json:"id"`
}

// FormulaResult is read-only: formulas are computed by the backend.
type FormulaResult struct {
	Type   string   `json:"type,omitempty"`
	Number *float64 `json:"number,omitempty"`
}

// Page is one record in a backend database.
type Page struct {
	ID             string              `json:"id"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	Properties     map[string]Property `json:"properties"`
}

// ---- Query request/response ----

// Filter is the subset of the backend's filter grammar this system uses:
// single-property equality on numbers and titles, and relation containment.
type Filter struct {
	Property string          `json:"property"`
	Number   *NumberFilter   `json:"number,omitempty"`
	Title    *TextFilter     `json:"title,omitempty"`
	Relation *RelationFilter `json:"relation,omitempty"`
}

type NumberFilter struct {
	Equals *float64 `json:"equals,omitempty"`
}

type TextFilter struct {
	Equals string `json:"equals,omitempty"`
}

type RelationFilter struct {
	Contains string `json:"contains,omitempty"`
}

type queryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// QueryResponse is one page of query results. Callers that need the whole
// database follow NextCursor until HasMore is false (see QueryAll).
type QueryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// ---- Page create/update ----

type createPageRequest struct {
	Parent     Parent              `json:"parent"`
	Properties map[string]Property `json:"properties"`
}

type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id"`
}

type updatePageRequest struct {
	Properties map[string]Property `json:"properties"`
}

// ---- Block append ----

type appendBlocksRequest struct {
	Children []Block `json:"children"`
}

type Block struct {
	Object    string         `json:"object"`
	Type      string         `json:"type"`
	Paragraph *ParagraphBody `json:"paragraph,omitempty"`
}

type ParagraphBody struct {
	RichText []RichText `json:"rich_text"`
}

// ---- Builders (write side) ----

func TitleProp(content string) Property {
	return Property{Title: []RichText{{Text: &TextBody{Content: content}}}}
}

func RichTextProp(content string) Property {
	return Property{RichText: []RichText{{Text: &TextBody{Content: content}}}}
}

func NumberProp(n float64) Property {
	return Property{Number: &n}
}

func CheckboxProp(v bool) Property {
	return Property{Checkbox: &v}
}

func URLProp(u string) Property {
	return Property{URL: &u}
}

func SelectProp(name string) Property {
	return Property{Select: &SelectOption{Name: name}}
}

func RelationProp(pageIDs ...string) Property {
	refs := make([]RelationRef, 0, len(pageIDs))
	for _, id := range pageIDs {
		refs = append(refs, RelationRef{ID: id})
	}
	return Property{Relation: refs}
}

// ---- Extractors (read side) ----
// All extractors tolerate missing properties and empty fragment lists —
// backend rows created by hand in the UI routinely have blank cells.

// PlainText returns the concatenated text of a title or rich_text property.
func (p Page) PlainText(property string) string {
	prop, ok := p.Properties[property]
	if !ok {
		return ""
	}
	fragments := prop.Title
	if len(fragments) == 0 {
		fragments = prop.RichText
	}
	var out string
	for _, f := range fragments {
		if f.Text != nil {
			out += f.Text.Content
		} else {
			out += f.PlainText
		}
	}
	return out
}

// Number returns the value of a number property, or 0 when unset.
func (p Page) Number(property string) (float64, bool) {
	prop, ok := p.Properties[property]
	if !ok || prop.Number == nil {
		return 0, false
	}
	return *prop.Number, true
}

func (p Page) Checkbox(property string) bool {
	prop, ok := p.Properties[property]
	if !ok || prop.Checkbox == nil {
		return false
	}
	return *prop.Checkbox
}

func (p Page) URLValue(property string) string {
	prop, ok := p.Properties[property]
	if !ok || prop.URL == nil {
		return ""
	}
	return *prop.URL
}

func (p Page) SelectName(property string) string {
	prop, ok := p.Properties[property]
	if !ok || prop.Select == nil {
		return ""
	}
	return prop.Select.Name
}

// FormulaNumber returns the numeric result of a formula property, or 0
// when the formula is unset or not numeric.
func (p Page) FormulaNumber(property string) float64 {
	prop, ok := p.Properties[property]
	if !ok || prop.Formula == nil || prop.Formula.Number == nil {
		return 0
	}
	return *prop.Formula.Number
}

// RelationIDs returns the page IDs a relation property points at.
func (p Page) RelationIDs(property string) []string {
	prop, ok := p.Properties[property]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(prop.Relation))
	for _, r := range prop.Relation {
		ids = append(ids, r.ID)
	}
	return ids
}
