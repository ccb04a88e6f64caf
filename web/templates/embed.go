package templates

import "embed"

// FS holds the layouts, partials, pages and standalone documents
//
//go:embed html
var FS embed.FS
