package views

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
)

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return errorPage(cfg, "Página não encontrada", "O conteúdo que você procura não existe.")
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return errorPage(cfg, "Algo deu errado", "Não foi possível carregar os posts. Tente novamente em instantes.")
}

func errorPage(cfg SiteConfig, title, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeHead(&buf, cfg, PageMeta{Title: title + " | " + cfg.Name})
		buf.WriteString(`<body>`)
		writeHeader(&buf, cfg)
		buf.WriteString(`<main class="container error"><h1>`)
		buf.WriteString(templ.EscapeString(title))
		buf.WriteString(`</h1><p>`)
		buf.WriteString(templ.EscapeString(message))
		buf.WriteString(`</p><a href="/">Voltar para o início</a></main></body></html>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}
