// Package web embeds the HTML templates so the binary serves its UI
// without a templates directory on disk.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
