package cms

import (
	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/navigate"
)

const (
	// LinkTypeWidget link type of widget links
	LinkTypeWidget = "widget"
	// ZoneMain main zone of pages
	ZoneMain = "main"
	// SmartQueryTitle title of the semantic search widget
	SmartQueryTitle = "smart-query"
)

// FindWidget returns the first widget link in zone of pc whose target is titled
// title
func FindWidget(pc *content.PageContext, zone, title string) (content.Link, bool) {
	data := pc.Data()
	nodes := pc.Nodes()
	for _, link := range data.PageLinks()[zone] {
		if link.Type() != LinkTypeWidget {
			continue
		}
		if node := nodes.Get(link.TargetID); node != nil && node.Title == title {
			return link, true
		}
	}
	return content.Link{}, false
}

// SmartQueryTopic topic parameter of the semantic search widget of the main zone
func SmartQueryTopic(pc *content.PageContext) (string, bool) {
	link, ok := FindWidget(pc, ZoneMain, SmartQueryTitle)
	if !ok {
		return "", false
	}
	topic, ok := navigate.String(link.Parameters(), "topic")
	return topic, ok && topic != ""
}
