package localcms

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eringen/spacetraveling/prismic"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	cursorPrefix    = "localcms:"

	// maxPage keeps (page-1)*pageSize far from overflow.
	maxPage = 1 << 20
)

var (
	// ErrUnsupportedPredicate is returned for predicates the store cannot evaluate.
	ErrUnsupportedPredicate = errors.New("localcms: unsupported predicate")
	// ErrInvalidCursor is returned for cursors this store did not issue.
	ErrInvalidCursor = errors.New("localcms: invalid cursor")
)

// columns maps predicate paths onto table columns.
var columns = map[string]string{
	"document.type": "type",
	"document.id":   "id",
	"document.uid":  "uid",
}

// cursorState is everything needed to re-run a query at another page.
type cursorState struct {
	Predicates []prismic.Predicate  `json:"p"`
	Options    prismic.QueryOptions `json:"o"`
}

// Query evaluates predicates and returns one page of documents ordered by
// publication date, newest first.
func (s *Store) Query(ctx context.Context, predicates []prismic.Predicate, opts prismic.QueryOptions) (resp *prismic.Response, err error) {
	defer s.observe("query", time.Now(), &err)
	return s.query(ctx, predicates, opts)
}

// QueryCursor runs the query a previous Response.NextPage points at.
func (s *Store) QueryCursor(ctx context.Context, cursor string) (resp *prismic.Response, err error) {
	defer s.observe("cursor", time.Now(), &err)
	state, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, state.Predicates, state.Options)
}

func (s *Store) query(ctx context.Context, predicates []prismic.Predicate, opts prismic.QueryOptions) (*prismic.Response, error) {
	where, args, err := buildWhere(predicates)
	if err != nil {
		return nil, err
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	if page > maxPage {
		return nil, fmt.Errorf("localcms: page %d out of range", page)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("localcms: count: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uid, type, lang, tags, first_publication_date, last_publication_date, data FROM documents`+where+
			` ORDER BY published_at IS NULL, published_at DESC, id ASC LIMIT ? OFFSET ?`,
		append(args, pageSize, (page-1)*pageSize)...)
	if err != nil {
		return nil, fmt.Errorf("localcms: query: %w", err)
	}
	defer rows.Close()

	projection := parseFetch(opts.Fetch)
	results := []prismic.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		if fields, ok := projection[d.Type]; ok {
			d.Data = project(d.Data, fields)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	resp := &prismic.Response{
		Page:             page,
		ResultsPerPage:   pageSize,
		ResultsSize:      len(results),
		TotalResultsSize: total,
		TotalPages:       totalPages,
		Results:          results,
	}
	if page < totalPages {
		next := encodeCursor(predicates, opts, page+1)
		resp.NextPage = &next
	}
	if page > 1 {
		prev := encodeCursor(predicates, opts, page-1)
		resp.PrevPage = &prev
	}
	s.logger.DebugContext(ctx, "local query", "where", where, "page", page, "results", len(results), "total", total)
	return resp, nil
}

func buildWhere(predicates []prismic.Predicate) (string, []any, error) {
	if len(predicates) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(predicates))
	var args []any
	for _, p := range predicates {
		col, ok := columns[p.Path]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
		}
		switch p.Name {
		case "at", "not":
			if len(p.Values) != 1 {
				return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
			}
			op := "="
			if p.Name == "not" {
				op = "<>"
			}
			clauses = append(clauses, col+" "+op+" ?")
			args = append(args, p.Values[0])
		case "any":
			if len(p.Values) == 0 {
				clauses = append(clauses, "0")
				continue
			}
			clauses = append(clauses, col+" IN (?"+strings.Repeat(", ?", len(p.Values)-1)+")")
			for _, v := range p.Values {
				args = append(args, v)
			}
		default:
			return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func scanDocument(rows *sql.Rows) (prismic.Document, error) {
	var (
		d                 prismic.Document
		tags, data        string
		firstPub, lastPub sql.NullString
	)
	if err := rows.Scan(&d.ID, &d.UID, &d.Type, &d.Lang, &tags, &firstPub, &lastPub, &data); err != nil {
		return prismic.Document{}, err
	}
	if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
		return prismic.Document{}, fmt.Errorf("localcms: tags of %s: %w", d.ID, err)
	}
	if err := json.Unmarshal([]byte(data), &d.Data); err != nil {
		return prismic.Document{}, fmt.Errorf("localcms: data of %s: %w", d.ID, err)
	}
	if firstPub.Valid {
		d.FirstPublicationDate = &firstPub.String
	}
	if lastPub.Valid {
		d.LastPublicationDate = &lastPub.String
	}
	return d, nil
}

// parseFetch groups "type.field" entries by document type.
func parseFetch(fetch []string) map[string][]string {
	out := make(map[string][]string)
	for _, f := range fetch {
		typ, field, ok := strings.Cut(strings.TrimSpace(f), ".")
		if !ok || typ == "" || field == "" {
			continue
		}
		out[typ] = append(out[typ], field)
	}
	return out
}

func project(data map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := data[f]; ok {
			out[f] = v
		}
	}
	return out
}

func encodeCursor(predicates []prismic.Predicate, opts prismic.QueryOptions, page int) string {
	opts.Page = page
	b, _ := json.Marshal(cursorState{Predicates: predicates, Options: opts})
	return cursorPrefix + base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(cursor string) (cursorState, error) {
	raw, ok := strings.CutPrefix(cursor, cursorPrefix)
	if !ok {
		return cursorState{}, ErrInvalidCursor
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return cursorState{}, ErrInvalidCursor
	}
	var state cursorState
	if err := json.Unmarshal(b, &state); err != nil {
		return cursorState{}, ErrInvalidCursor
	}
	if state.Options.Page < 1 || state.Options.Page > maxPage {
		return cursorState{}, ErrInvalidCursor
	}
	return state, nil
}
