package prismic

// Document is a raw document as returned by the search API.
type Document struct {
	ID                   string         `json:"id"`
	UID                  string         `json:"uid"`
	Type                 string         `json:"type"`
	Href                 string         `json:"href,omitempty"`
	Lang                 string         `json:"lang,omitempty"`
	Tags                 []string       `json:"tags"`
	FirstPublicationDate *string        `json:"first_publication_date"`
	LastPublicationDate  *string        `json:"last_publication_date"`
	Data                 map[string]any `json:"data"`
}

// Response is one page of search results.
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []Document `json:"results"`
}

// QueryOptions carries the non-predicate search parameters.
type QueryOptions struct {
	Fetch     []string // field projection, "type.field"
	PageSize  int      // 0 leaves the API default
	Page      int      // 1-based, 0 leaves the API default
	Orderings string   // e.g. "[document.first_publication_date desc]"
	Lang      string
}

// Ref is a content release pointer; the master ref points at published content.
type Ref struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

type apiInfo struct {
	Refs []Ref `json:"refs"`
}
