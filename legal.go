package kdict

import (
	_ "embed"

	"github.com/FAU-CDI/kdict/internal/assets"
)

//go:embed LICENSE
var License string

// LegalText returns legal text to be included in human-readable output using kdict.
func LegalText() string {
	return `
================================================================================
kdict - A K-Pop Artist Dictionary
================================================================================
` + License + "\n" + assets.Disclaimer
}
