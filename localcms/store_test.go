package localcms

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eringen/spacetraveling/prismic"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr(s string) *string { return &s }

const seedJSON = `[
  {"id": "P1", "uid": "como-utilizar-hooks", "type": "posts", "tags": ["react"],
   "first_publication_date": "2021-03-15T19:25:28+0000",
   "data": {"title": "Como utilizar Hooks", "subtitle": "Pensando em sincronização", "author": "Joseph Oliveira", "content": [{"heading": "x"}]}},
  {"id": "P2", "uid": "criando-um-app-cra-do-zero", "type": "posts",
   "first_publication_date": "2021-03-25T19:27:35+0000",
   "data": {"title": "Criando um app CRA do zero", "subtitle": "Tudo sobre como criar", "author": "Danilo Vieira"}},
  {"id": "P3", "uid": "rascunho", "type": "posts",
   "data": {"title": "Rascunho", "subtitle": "", "author": "Ninguém"}},
  {"id": "G1", "uid": "sobre", "type": "page", "first_publication_date": "2021-04-01T00:00:00+0000",
   "data": {"title": "Sobre"}}
]`

func seed(t *testing.T, s *Store) {
	t.Helper()
	n, err := s.Seed(context.Background(), strings.NewReader(seedJSON))
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if n != 4 {
		t.Fatalf("Seed saved %d documents, want 4", n)
	}
}

func uids(resp *prismic.Response) []string {
	var out []string
	for _, d := range resp.Results {
		out = append(out, d.UID)
	}
	return out
}

func TestQueryFiltersByTypeAndOrdersByDate(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s)

	resp, err := s.Query(context.Background(), []prismic.Predicate{prismic.At("document.type", "posts")}, prismic.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	got := strings.Join(uids(resp), ",")
	want := "criando-um-app-cra-do-zero,como-utilizar-hooks,rascunho"
	if got != want {
		t.Errorf("uids = %q, want %q", got, want)
	}
	if resp.TotalResultsSize != 3 || resp.TotalPages != 1 || resp.Page != 1 {
		t.Errorf("unexpected paging: %+v", resp)
	}
	if resp.NextPage != nil {
		t.Errorf("NextPage = %q, want nil", *resp.NextPage)
	}
	if resp.Results[2].FirstPublicationDate != nil {
		t.Errorf("draft should have no publication date")
	}
	if len(resp.Results[1].Tags) != 1 || resp.Results[1].Tags[0] != "react" {
		t.Errorf("Tags = %v, want [react]", resp.Results[1].Tags)
	}
}

func TestQueryFetchProjection(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s)

	resp, err := s.Query(context.Background(),
		[]prismic.Predicate{prismic.At("document.uid", "como-utilizar-hooks")},
		prismic.QueryOptions{Fetch: []string{"posts.title", "posts.author"}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(resp.Results))
	}
	data := resp.Results[0].Data
	if len(data) != 2 || data["title"] != "Como utilizar Hooks" || data["author"] != "Joseph Oliveira" {
		t.Errorf("Data = %v, want only title and author", data)
	}
}

func TestQueryPaginatesWithCursor(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s)
	ctx := context.Background()

	first, err := s.Query(ctx, []prismic.Predicate{prismic.At("document.type", "posts")}, prismic.QueryOptions{PageSize: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(first.Results) != 2 || first.TotalPages != 2 {
		t.Fatalf("first page: %d results, %d pages", len(first.Results), first.TotalPages)
	}
	if first.NextPage == nil {
		t.Fatal("expected a next page cursor")
	}

	second, err := s.QueryCursor(ctx, *first.NextPage)
	if err != nil {
		t.Fatalf("QueryCursor failed: %v", err)
	}
	if got := strings.Join(uids(second), ","); got != "rascunho" {
		t.Errorf("second page uids = %q, want %q", got, "rascunho")
	}
	if second.NextPage != nil {
		t.Error("second page should be the last")
	}
	if second.PrevPage == nil {
		t.Error("second page should point back")
	}
}

func TestQueryAnyAndNot(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s)

	resp, err := s.Query(context.Background(), []prismic.Predicate{
		prismic.Any("document.type", "posts", "page"),
		prismic.Not("document.id", "P3"),
	}, prismic.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.TotalResultsSize != 3 {
		t.Errorf("TotalResultsSize = %d, want 3", resp.TotalResultsSize)
	}
	for _, d := range resp.Results {
		if d.ID == "P3" {
			t.Error("P3 should be excluded")
		}
	}
}

func TestQueryRejectsUnsupportedPredicate(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Query(context.Background(), []prismic.Predicate{prismic.At("my.posts.author", "x")}, prismic.QueryOptions{})
	if !errors.Is(err, ErrUnsupportedPredicate) {
		t.Errorf("expected ErrUnsupportedPredicate, got %v", err)
	}
	_, err = s.Query(context.Background(), []prismic.Predicate{{Name: "fulltext", Path: "document.type", Values: []string{"x"}}}, prismic.QueryOptions{})
	if !errors.Is(err, ErrUnsupportedPredicate) {
		t.Errorf("expected ErrUnsupportedPredicate, got %v", err)
	}
}

func TestQueryCursorRejectsForeignCursor(t *testing.T) {
	s := setupTestStore(t)

	for _, c := range []string{"", "https://repo.cdn.prismic.io/api/v2/documents/search?page=2", "localcms:%%%", "localcms:bm90IGpzb24"} {
		if _, err := s.QueryCursor(context.Background(), c); !errors.Is(err, ErrInvalidCursor) {
			t.Errorf("QueryCursor(%q) err = %v, want ErrInvalidCursor", c, err)
		}
	}
}

func TestSaveDocumentUpsertAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	doc := prismic.Document{ID: "X", UID: "x", Type: "posts", FirstPublicationDate: ptr("2022-01-19T10:00:00+0000"),
		Data: map[string]any{"title": "Original"}}
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	doc.Data["title"] = "Updated"
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument update failed: %v", err)
	}

	resp, err := s.Query(ctx, []prismic.Predicate{prismic.At("document.id", "X")}, prismic.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Data["title"] != "Updated" {
		t.Fatalf("expected one updated document, got %+v", resp.Results)
	}

	if err := s.DeleteDocument(ctx, "X"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	resp, err = s.Query(ctx, nil, prismic.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected empty store, got %d documents", len(resp.Results))
	}
}

func TestSaveDocumentRequiresIDAndType(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SaveDocument(context.Background(), prismic.Document{UID: "no-id", Type: "posts"}); err == nil {
		t.Error("expected error for missing id")
	}
	if err := s.SaveDocument(context.Background(), prismic.Document{ID: "N"}); err == nil {
		t.Error("expected error for missing type")
	}
}

func TestSeedIsAtomic(t *testing.T) {
	s := setupTestStore(t)
	bad := `[{"id":"A","type":"posts"},{"id":"","type":"posts"}]`
	if _, err := s.Seed(context.Background(), strings.NewReader(bad)); err == nil {
		t.Fatal("expected seed error")
	}
	resp, err := s.Query(context.Background(), nil, prismic.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.TotalResultsSize != 0 {
		t.Errorf("seed should roll back, found %d documents", resp.TotalResultsSize)
	}
}

func TestQueryOrdersMixedOffsetsByInstant(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	docs := []prismic.Document{
		// 13:00Z, though its text sorts below the 12:00Z one.
		{ID: "N", UID: "newer-13Z", Type: "posts", FirstPublicationDate: ptr("2022-01-19T10:00:00-03:00")},
		{ID: "O", UID: "older-12Z", Type: "posts", FirstPublicationDate: ptr("2022-01-19T12:00:00Z")},
		{ID: "M", UID: "middle-1230Z", Type: "posts", FirstPublicationDate: ptr("2022-01-19T12:30:00+0000")},
		{ID: "U", UID: "unparsable", Type: "posts", FirstPublicationDate: ptr("2022")},
	}
	for _, d := range docs {
		if err := s.SaveDocument(ctx, d); err != nil {
			t.Fatalf("SaveDocument(%s) failed: %v", d.ID, err)
		}
	}

	resp, err := s.Query(ctx, []prismic.Predicate{prismic.At("document.type", "posts")}, prismic.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	want := "newer-13Z,middle-1230Z,older-12Z,unparsable"
	if got := strings.Join(uids(resp), ","); got != want {
		t.Errorf("uids = %q, want %q", got, want)
	}
}

func TestOpenBackfillsSortKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctx := context.Background()
	for _, q := range []string{
		`DROP INDEX idx_documents_published_at`,
		`ALTER TABLE documents DROP COLUMN published_at`,
		`INSERT INTO documents (id, uid, type, first_publication_date) VALUES ('A', 'a', 'posts', '2022-01-19T12:00:00Z')`,
		`INSERT INTO documents (id, uid, type, first_publication_date) VALUES ('B', 'b', 'posts', '2022-01-19T10:00:00-03:00')`,
	} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	resp, err := s.Query(ctx, nil, prismic.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if got := strings.Join(uids(resp), ","); got != "b,a" {
		t.Errorf("uids = %q, want %q", got, "b,a")
	}
}

func TestQueryCursorRejectsOutOfRangePage(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s)

	for _, page := range []int{0, -1, maxPage + 1, 1 << 62} {
		c := encodeCursor([]prismic.Predicate{prismic.At("document.type", "posts")}, prismic.QueryOptions{}, page)
		if _, err := s.QueryCursor(context.Background(), c); !errors.Is(err, ErrInvalidCursor) {
			t.Errorf("page %d: err = %v, want ErrInvalidCursor", page, err)
		}
	}

	if _, err := s.Query(context.Background(), nil, prismic.QueryOptions{Page: maxPage + 1}); err == nil {
		t.Error("expected an out-of-range page to be rejected")
	}
}
