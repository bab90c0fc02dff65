// Package web holds the embedded static demo page.
package web

import "embed"

//go:embed index.html
var Assets embed.FS
