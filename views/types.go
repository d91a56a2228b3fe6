package views

// SiteConfig holds site-wide settings the templates read.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "spacetraveling")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	LogoPath    string // static logo asset, e.g. /images/logo.svg
	Lang        string // html lang attribute, e.g. pt-BR
}

// PageMeta carries per-page SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical
	JSONLD      string // structured data, already encoded
}
