package content

import (
	"github.com/foomo/cmsfront/pkg/navigate"
)

type (
	// Sites the site structure
	Sites []*SiteDescriptor
	// SiteDescriptor a site configured in the CMS
	SiteDescriptor struct {
		Name             string         `json:"name"`
		LiveHostname     string         `json:"liveHostname,omitempty"`
		CustomAttributes map[string]any `json:"customAttributes,omitempty"`
		Sitemap          *SitemapNode   `json:"sitemap,omitempty"`
	}
	// SitemapNode section tree of a site
	SitemapNode struct {
		Name     string         `json:"name,omitempty"`
		Path     string         `json:"path"`
		Children []*SitemapNode `json:"children,omitempty"`
	}
)

const (
	// SiteCategoryMain category of the main site
	SiteCategoryMain = "main"
)

// ByName find a site by name
func (s Sites) ByName(name string) *SiteDescriptor {
	for _, site := range s {
		if site != nil && site.Name == name {
			return site
		}
	}
	return nil
}

// Category custom attribute siteCategory
func (d *SiteDescriptor) Category() string {
	if d == nil {
		return ""
	}
	s, _ := navigate.String(d.CustomAttributes, "siteCategory")
	return s
}

// CustomColor custom attribute customColor
func (d *SiteDescriptor) CustomColor() string {
	if d == nil {
		return ""
	}
	s, _ := navigate.String(d.CustomAttributes, "customColor")
	return s
}

// Sections top level sections of the sitemap
func (d *SiteDescriptor) Sections() []*SitemapNode {
	if d == nil || d.Sitemap == nil {
		return nil
	}
	return d.Sitemap.Children
}
