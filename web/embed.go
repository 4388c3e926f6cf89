// Package web embeds the HTML templates and static assets served by the
// movie review server.
package web

import "embed"

//go:embed templates/*.html static/*
var FS embed.FS
