package spacetraveling

import "embed"

// EmbeddedAssets contains static assets shipped with the site:
// images/logo.svg and public/home.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

// LogoPath is where the logo is served and written by Build.
const LogoPath = "/images/logo.svg"
