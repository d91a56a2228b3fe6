package posts

// Post is a display-ready post record.
type Post struct {
	UID                  string   `json:"uid,omitempty"`
	FirstPublicationDate *string  `json:"first_publication_date"` // localized, nil when unknown
	Data                 PostData `json:"data"`
}

// PostData holds the projected document fields, always strings.
type PostData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
}

// PostPagination is the render input of the listing page.
type PostPagination struct {
	NextPage *string `json:"next_page"`
	Results  []Post  `json:"results"`
}

// HasNext reports whether the content service has further pages.
func (p PostPagination) HasNext() bool {
	return p.NextPage != nil && *p.NextPage != ""
}
