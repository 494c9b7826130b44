package setlab

import (
	"embed"
)

// Web contains the home page template and its static assets
//
//go:embed all:web
var Web embed.FS
