// Package posts prepares the render input of the post listing page: it
// queries the content service for posts and shapes each document into a
// display record.
package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/eringen/spacetraveling/metrics"
	"github.com/eringen/spacetraveling/prismic"
)

// DocumentType is the content type listed on the page.
const DocumentType = "posts"

// ErrInvalidCursor is returned by PrepareNext for an empty cursor.
var ErrInvalidCursor = errors.New("posts: invalid cursor")

// fetchFields is the field projection of the listing query.
var fetchFields = []string{
	DocumentType + ".title",
	DocumentType + ".subtitle",
	DocumentType + ".author",
}

// ContentClient is the query interface of the content service.
type ContentClient interface {
	Query(ctx context.Context, predicates []prismic.Predicate, opts prismic.QueryOptions) (*prismic.Response, error)
	QueryCursor(ctx context.Context, cursor string) (*prismic.Response, error)
}

// Preparer builds PostPagination values. It holds no mutable state; every
// call issues exactly one query.
type Preparer struct {
	client   ContentClient
	dates    dateFormatter
	pageSize int
	logger   *slog.Logger
	recorder metrics.Recorder
}

type settings struct {
	locale   language.Tag
	location *time.Location
	pageSize int
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Preparer.
type Option func(*settings)

// WithLocale sets the locale of the publication date (default pt-BR).
func WithLocale(tag language.Tag) Option {
	return func(s *settings) {
		s.locale = tag
	}
}

// WithLocation sets the timezone dates are rendered in (default UTC).
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		s.location = loc
	}
}

// WithPageSize sets the number of posts per page; 0 keeps the service default.
func WithPageSize(n int) Option {
	return func(s *settings) {
		s.pageSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *settings) {
		s.recorder = r
	}
}

// New creates a Preparer querying client.
func New(client ContentClient, opts ...Option) (*Preparer, error) {
	if client == nil {
		return nil, errors.New("posts: nil content client")
	}
	s := settings{
		locale:   DefaultLocale,
		location: time.UTC,
		logger:   slog.New(slog.DiscardHandler),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	dates, err := newDateFormatter(s.locale, s.location)
	if err != nil {
		return nil, err
	}
	return &Preparer{
		client:   client,
		dates:    dates,
		pageSize: s.pageSize,
		logger:   s.logger,
		recorder: s.recorder,
	}, nil
}

// Prepare queries the first page of posts and shapes it for rendering.
// A failing query is returned wrapped; nothing is retried.
func (p *Preparer) Prepare(ctx context.Context) (PostPagination, error) {
	resp, err := p.client.Query(ctx,
		[]prismic.Predicate{prismic.At("document.type", DocumentType)},
		prismic.QueryOptions{Fetch: fetchFields, PageSize: p.pageSize},
	)
	if err != nil {
		return PostPagination{}, fmt.Errorf("query posts: %w", err)
	}
	return p.shape(ctx, resp), nil
}

// PrepareNext follows a next_page cursor from a previous PostPagination.
func (p *Preparer) PrepareNext(ctx context.Context, cursor string) (PostPagination, error) {
	if strings.TrimSpace(cursor) == "" {
		return PostPagination{}, ErrInvalidCursor
	}
	resp, err := p.client.QueryCursor(ctx, cursor)
	if err != nil {
		return PostPagination{}, fmt.Errorf("query posts page: %w", err)
	}
	return p.shape(ctx, resp), nil
}

// FormatDate renders a raw publication timestamp; nil when raw is nil,
// empty or unparsable.
func (p *Preparer) FormatDate(raw *string) *string {
	if raw == nil {
		return nil
	}
	s, ok := p.dates.format(*raw)
	if !ok {
		return nil
	}
	return &s
}

func (p *Preparer) shape(ctx context.Context, resp *prismic.Response) PostPagination {
	if resp == nil {
		resp = &prismic.Response{}
	}
	results := make([]Post, 0, len(resp.Results))
	for _, doc := range resp.Results {
		date := p.FormatDate(doc.FirstPublicationDate)
		if date == nil && doc.FirstPublicationDate != nil {
			p.logger.WarnContext(ctx, "unparsable publication date",
				"uid", doc.UID,
				"value", *doc.FirstPublicationDate,
			)
		}
		results = append(results, Post{
			UID:                  doc.UID,
			FirstPublicationDate: date,
			Data: PostData{
				Title:    Stringify(doc.Data["title"]),
				Subtitle: Stringify(doc.Data["subtitle"]),
				Author:   Stringify(doc.Data["author"]),
			},
		})
	}
	p.recorder.ObservePrepared(len(results))
	p.logger.DebugContext(ctx, "prepared posts", "count", len(results), "has_next", resp.NextPage != nil)
	return PostPagination{NextPage: resp.NextPage, Results: results}
}
