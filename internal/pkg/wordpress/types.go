package wordpress

// Term is the remote representation of a category taxonomy term.
type Term struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Parent      int64  `json:"parent"`
	Description string `json:"description"`
}

// TermPayload is the write payload for term create/update calls. Parent is
// omitted when zero so top-level terms and categories with unsynced parents
// simply carry no parent field.
type TermPayload struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Parent      int64  `json:"parent,omitempty"`
	Description string `json:"description,omitempty"`
}

// Post is the remote representation of a course post.
type Post struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Link   string `json:"link"`
}

// PostPayload is the write payload for post create/update calls. Meta
// carries the derived price metadata.
type PostPayload struct {
	Title   string                 `json:"title"`
	Status  string                 `json:"status,omitempty"`
	Content string                 `json:"content,omitempty"`
	Excerpt string                 `json:"excerpt,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// PricingItem is one row of the bulk pricing sync payload pushed to the
// custom pricing/sync endpoint.
type PricingItem struct {
	PriceID       uint    `json:"price_id"`
	CategoryID    uint    `json:"category_id"`
	CourseID      uint    `json:"course_id,omitempty"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	StartDate     int64   `json:"start_date"`
	EndDate       int64   `json:"end_date"`
	Promotional   bool    `json:"promotional"`
	EnrollmentFee bool    `json:"enrollment_fee"`
	Installments  int     `json:"installments"`
	Status        int     `json:"status"`
}

// PricingPayload wraps the bulk pricing items.
type PricingPayload struct {
	Items []PricingItem `json:"items"`
}
