package cms

import (
	"regexp"
	"strings"

	"github.com/foomo/cmsfront/content"
	"golang.org/x/net/idna"
)

var schemeRegex = regexp.MustCompile(`(?i)^https?://`)

// IsOnSite is obj published on site
func IsOnSite(obj *content.Object, site string) bool {
	if obj == nil {
		return false
	}
	for _, section := range obj.Sections {
		if section.SiteName == site {
			return true
		}
	}
	return false
}

// ObjectMainSite the site of the first publication section
func ObjectMainSite(obj *content.Object) string {
	if obj == nil || len(obj.Sections) == 0 {
		return ""
	}
	return obj.Sections[0].SiteName
}

// ObjectMainSection the main section of the first publication section
func ObjectMainSection(obj *content.Object) string {
	if obj == nil || len(obj.Sections) == 0 {
		return ""
	}
	return obj.Sections[0].MainSection
}

// CurrentLiveSite the site of pc without a preview suffix
func CurrentLiveSite(pc *content.PageContext) string {
	site := pc.SiteName()
	if strings.Contains(site, content.PreviewSiteSuffix) {
		site, _, _ = strings.Cut(site, "[")
	}
	return site
}

// CurrentSite the descriptor of the current live site
func CurrentSite(pc *content.PageContext) *content.SiteDescriptor {
	if pc == nil || pc.Site == nil {
		return nil
	}
	return pc.Site.SiteStructure.ByName(CurrentLiveSite(pc))
}

// LiveHostname the live hostname of site without scheme and port
func LiveHostname(site *content.SiteDescriptor) string {
	if site == nil || site.LiveHostname == "" {
		return ""
	}
	host := schemeRegex.ReplaceAllString(site.LiveHostname, "")
	host, _, _ = strings.Cut(host, ":")
	return NormalizeHostname(host)
}

// NormalizeHostname returns the ascii lookup form of host, or host itself if it
// is not a valid domain name
func NormalizeHostname(host string) string {
	if host == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}

// SiteNameByHostname returns the name of the site served under hostname. In dev
// mode an unknown hostname maps to the main site. No match yields "".
func SiteNameByHostname(hostname string, sites content.Sites, devMode bool) string {
	if len(sites) == 0 {
		return ""
	}
	hostname = NormalizeHostname(hostname)
	for _, site := range sites {
		if host := LiveHostname(site); host != "" && host == hostname {
			return site.Name
		}
	}
	if devMode {
		for _, site := range sites {
			if site.Category() == content.SiteCategoryMain {
				return site.Name
			}
		}
	}
	return ""
}
