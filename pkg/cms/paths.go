package cms

import (
	"strings"

	"github.com/foomo/cmsfront/content"
)

// StaticPath a page that is rendered ahead of the first request
type StaticPath struct {
	Site string `json:"site"`
	URL  string `json:"url"`
}

// StaticPaths every top level section of every site with a live hostname,
// followed by the site root. Sites without a live hostname are skipped.
func StaticPaths(sites content.Sites) []StaticPath {
	var ret []StaticPath
	for _, site := range sites {
		host := LiveHostname(site)
		if host == "" {
			continue
		}
		for _, section := range site.Sections() {
			if section == nil {
				continue
			}
			ret = append(ret, StaticPath{Site: host, URL: strings.Trim(section.Path, "/")})
		}
		ret = append(ret, StaticPath{Site: host, URL: ""})
	}
	return ret
}
