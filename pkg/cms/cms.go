// Package cms shapes raw CMS page payloads into page contexts.
//
// Everything in here works on already fetched data and never fails: malformed
// or missing parts of a payload degrade to empty results, which are logged and
// counted as fallbacks.
package cms

import (
	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/metrics"
	"go.uber.org/zap"
)

// Fallback points
const (
	FallbackPagePayload       = "page_payload"
	FallbackZonesShape        = "zones_shape"
	FallbackContentParse      = "content_parse"
	FallbackDanglingReference = "dangling_reference"
	FallbackMissingHelper     = "missing_helper"
	FallbackProjection        = "projection"
)

// LinkTemplateList link template of query, search and section results
const LinkTemplateList = "list"

type Shaper struct {
	l *zap.Logger
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger) *Shaper {
	return &Shaper{
		l: l.Named("cms"),
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Shaper) fallback(point string, fields ...zap.Field) {
	metrics.FallbackCounter.WithLabelValues(point).Inc()
	s.l.Debug("falling back to empty result", append(fields, zap.String("point", point))...)
}

func listLinkContext() *content.LinkContext {
	return &content.LinkContext{
		LinkTemplate:   LinkTemplateList,
		TemplateSource: content.TemplateSourceFixed,
	}
}
