// Package ui embeds the templates and static assets served by the dashboard.
package ui

import "embed"

//go:embed templates static
var Files embed.FS
