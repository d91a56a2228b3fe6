package main

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"

	"github.com/eringen/spacetraveling/localcms"
	"github.com/eringen/spacetraveling/metrics"
	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/prismic"
)

// newPreparer builds the content client selected by CONTENT_SOURCE and the
// preparer on top of it. The returned func releases the client.
func newPreparer(rt *runtime, reg *prom.Registry) (*posts.Preparer, func(), error) {
	if err := rt.cfg.requireContentSource(); err != nil {
		return nil, nil, err
	}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if reg != nil {
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	client, closeFn, err := newContentClient(rt, recorder)
	if err != nil {
		return nil, nil, err
	}

	locale, err := language.Parse(rt.cfg.Locale)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("parse LOCALE %q: %w", rt.cfg.Locale, err)
	}
	loc, err := time.LoadLocation(rt.cfg.Timezone)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("load TIMEZONE %q: %w", rt.cfg.Timezone, err)
	}

	preparer, err := posts.New(client,
		posts.WithLocale(locale),
		posts.WithLocation(loc),
		posts.WithPageSize(rt.cfg.PageSize),
		posts.WithLogger(rt.logger),
		posts.WithRecorder(recorder),
	)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return preparer, closeFn, nil
}

func newContentClient(rt *runtime, recorder metrics.Recorder) (posts.ContentClient, func(), error) {
	switch rt.cfg.Content.Source {
	case sourceSQLite:
		store, err := localcms.Open(rt.cfg.Content.DatabasePath,
			localcms.WithLogger(rt.logger),
			localcms.WithRecorder(recorder),
		)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		client, err := prismic.New(rt.cfg.Prismic.Endpoint,
			prismic.WithAccessToken(rt.cfg.Prismic.AccessToken),
			prismic.WithTimeout(rt.cfg.Prismic.Timeout),
			prismic.WithLogger(rt.logger),
			prismic.WithRecorder(recorder),
		)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
}
