package views

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/spacetraveling/posts"
)

const loadMoreLabel = "Carregar mais posts"

// Home renders the full listing page.
func Home(cfg SiteConfig, page posts.PostPagination) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		meta := PageMeta{
			Title:       cfg.Name,
			Description: cfg.Description,
			URL:         buildURL(cfg.URL),
			JSONLD:      BlogJSONLD(cfg, page),
		}
		writeHead(&buf, cfg, meta)
		buf.WriteString(`<body>`)
		writeHeader(&buf, cfg)
		buf.WriteString(`<main class="container"><div class="posts" id="posts">`)
		writePostList(&buf, page)
		buf.WriteString(`</div></main></body></html>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// PostList renders the posts of one page followed by the load-more link.
// It is the fragment returned to HTMX requests.
func PostList(page posts.PostPagination) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writePostList(&buf, page)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Header renders the site header with the logo.
func Header(cfg SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeHeader(&buf, cfg)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeHead(buf *bytes.Buffer, cfg SiteConfig, meta PageMeta) {
	lang := cfg.Lang
	if lang == "" {
		lang = "pt-BR"
	}
	buf.WriteString(`<!DOCTYPE html><html lang="`)
	buf.WriteString(templ.EscapeString(lang))
	buf.WriteString(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	buf.WriteString(`<title>`)
	buf.WriteString(templ.EscapeString(meta.Title))
	buf.WriteString(`</title>`)
	if meta.Description != "" {
		buf.WriteString(`<meta name="description" content="`)
		buf.WriteString(templ.EscapeString(meta.Description))
		buf.WriteString(`">`)
	}
	if meta.URL != "" {
		buf.WriteString(`<link rel="canonical" href="`)
		buf.WriteString(templ.EscapeString(meta.URL))
		buf.WriteString(`">`)
	}
	if meta.JSONLD != "" {
		buf.WriteString(`<script type="application/ld+json">`)
		buf.WriteString(meta.JSONLD)
		buf.WriteString(`</script>`)
	}
	buf.WriteString(`<link rel="stylesheet" href="/public/home.css">`)
	buf.WriteString(`<script src="/public/htmx.min.js" defer></script>`)
	buf.WriteString(`</head>`)
}

func writeHeader(buf *bytes.Buffer, cfg SiteConfig) {
	buf.WriteString(`<header class="header"><a href="/"><img src="`)
	buf.WriteString(templ.EscapeString(cfg.LogoPath))
	buf.WriteString(`" alt="spacetraveling"></a></header>`)
}

func writePostList(buf *bytes.Buffer, page posts.PostPagination) {
	for _, p := range page.Results {
		buf.WriteString(`<a class="post" href="/">`)
		buf.WriteString(`<strong>`)
		buf.WriteString(templ.EscapeString(p.Data.Title))
		buf.WriteString(`</strong><p>`)
		buf.WriteString(templ.EscapeString(p.Data.Subtitle))
		buf.WriteString(`</p><div class="info">`)
		if p.FirstPublicationDate != nil {
			buf.WriteString(`<time>`)
			buf.WriteString(templ.EscapeString(*p.FirstPublicationDate))
			buf.WriteString(`</time>`)
		}
		buf.WriteString(`<span class="author">`)
		buf.WriteString(templ.EscapeString(p.Data.Author))
		buf.WriteString(`</span></div></a>`)
	}
	if page.HasNext() {
		buf.WriteString(`<a class="load-more" href="`)
		buf.WriteString(templ.EscapeString(PageURL(*page.NextPage)))
		buf.WriteString(`" hx-get="`)
		buf.WriteString(templ.EscapeString(PartialURL(*page.NextPage)))
		buf.WriteString(`" hx-swap="outerHTML">`)
		buf.WriteString(loadMoreLabel)
		buf.WriteString(`</a>`)
	}
}
