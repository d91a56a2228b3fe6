package views

import (
	"encoding/json"

	"github.com/eringen/spacetraveling/posts"
)

// BlogJSONLD returns a schema.org Blog object listing the posts of page.
// Publication dates are omitted since they are already display-formatted.
func BlogJSONLD(cfg SiteConfig, page posts.PostPagination) string {
	entries := make([]map[string]any, 0, len(page.Results))
	for _, p := range page.Results {
		entry := map[string]any{
			"@type":    "BlogPosting",
			"headline": p.Data.Title,
		}
		if p.Data.Subtitle != "" {
			entry["description"] = p.Data.Subtitle
		}
		if p.Data.Author != "" {
			entry["author"] = map[string]string{
				"@type": "Person",
				"name":  p.Data.Author,
			}
		}
		if p.UID != "" {
			entry["identifier"] = p.UID
		}
		entries = append(entries, entry)
	}

	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Blog",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
		"blogPost": entries,
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	// json.Marshal escapes <, > and &, so the result is safe inside <script>.
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
