package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/spacetraveling/posts"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func str(s string) *string { return &s }

var testCfg = SiteConfig{Name: "spacetraveling", URL: "https://blog.example.com", LogoPath: "/images/logo.svg"}

func TestHomeRendersPosts(t *testing.T) {
	page := posts.PostPagination{Results: []posts.Post{
		{UID: "a1", FirstPublicationDate: str("19 jan 2022"), Data: posts.PostData{Title: "Hello", Subtitle: "World", Author: "Jane"}},
		{UID: "b2", Data: posts.PostData{Title: "No date", Subtitle: "s", Author: "Joe"}},
	}}
	html := renderString(t, Home(testCfg, page))

	for _, want := range []string{
		`<html lang="pt-BR">`,
		`<img src="/images/logo.svg" alt="spacetraveling">`,
		`<strong>Hello</strong><p>World</p>`,
		`<time>19 jan 2022</time>`,
		`<span class="author">Jane</span>`,
		`<link rel="canonical" href="https://blog.example.com">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(html, "<time>") != 1 {
		t.Errorf("expected exactly one <time>, got %d", strings.Count(html, "<time>"))
	}
	if strings.Contains(html, loadMoreLabel) {
		t.Error("load-more link should be absent without a next page")
	}
}

func TestPostListEscapesContent(t *testing.T) {
	page := posts.PostPagination{Results: []posts.Post{
		{Data: posts.PostData{Title: `<script>alert("x")</script>`, Author: "A & B"}},
	}}
	html := renderString(t, PostList(page))
	if strings.Contains(html, "<script>") {
		t.Errorf("title was not escaped: %s", html)
	}
	if !strings.Contains(html, "A &amp; B") {
		t.Errorf("author was not escaped: %s", html)
	}
}

func TestPostListLoadMoreLink(t *testing.T) {
	next := "https://repo.cdn.prismic.io/api/v2/documents/search?ref=M1&page=2"
	html := renderString(t, PostList(posts.PostPagination{NextPage: &next}))

	if !strings.Contains(html, loadMoreLabel) {
		t.Fatal("expected load-more link")
	}
	wantHref := templ.EscapeString(PageURL(next))
	if !strings.Contains(html, `href="`+wantHref+`"`) {
		t.Errorf("load-more href missing, got %s", html)
	}
	if !strings.Contains(html, "partial=posts") {
		t.Error("expected HTMX fragment URL")
	}
}

func TestErrorPages(t *testing.T) {
	if html := renderString(t, NotFound(testCfg)); !strings.Contains(html, "Página não encontrada") {
		t.Error("NotFound page missing title")
	}
	if html := renderString(t, ServerError(testCfg)); !strings.Contains(html, "Algo deu errado") {
		t.Error("ServerError page missing title")
	}
}

func TestPageURLEscapesCursor(t *testing.T) {
	got := PageURL("localcms:abc&x=1")
	if got != "/?page=localcms%3Aabc%26x%3D1" {
		t.Errorf("PageURL = %q", got)
	}
}

func TestBlogJSONLD(t *testing.T) {
	page := posts.PostPagination{Results: []posts.Post{
		{UID: "a1", Data: posts.PostData{Title: "</script><b>", Subtitle: "World", Author: "Jane"}},
	}}
	ld := BlogJSONLD(testCfg, page)

	if strings.Contains(ld, "</script>") {
		t.Fatalf("JSON-LD must not close the script element: %s", ld)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(ld), &got); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if got["@type"] != "Blog" || got["name"] != "spacetraveling" {
		t.Errorf("unexpected blog object: %v", got)
	}
	entries, _ := got["blogPost"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected 1 blogPost, got %d", len(entries))
	}
	entry := entries[0].(map[string]any)
	if entry["headline"] != "</script><b>" || entry["identifier"] != "a1" {
		t.Errorf("unexpected entry: %v", entry)
	}

	html := renderString(t, Home(testCfg, page))
	if !strings.Contains(html, `<script type="application/ld+json">`) {
		t.Error("home page missing JSON-LD")
	}
}
