// Package content contains the data structures the CMS delivers and the page
// context derived from them.
package content

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// PathSeparator separator for paths in URLs
	PathSeparator = "/"
	// PreviewSiteSuffix marks the preview flavour of a site name, e.g. "mysite[PREVIEW]"
	PreviewSiteSuffix = "[PREVIEW]"
)
