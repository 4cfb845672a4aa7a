package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/components/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle so callers can extend or
// copy it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
