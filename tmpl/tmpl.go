// Package tmpl embeds the HTML templates the trail log renders.
package tmpl

import "embed"

//go:embed *.tmpl layout/*.tmpl
var FS embed.FS
