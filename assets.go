// Package marketplace provides embedded assets for production builds.
package marketplace

import "embed"

// TemplateFS holds the page templates.
// In dev mode (IsDev=true), templates are loaded from disk for hot reloading instead.
//
//go:embed all:frontend/templates
var TemplateFS embed.FS
