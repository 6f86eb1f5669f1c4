package cms_test

import (
	"testing"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/stretchr/testify/assert"
)

func TestIsOnSiteNormalizesSections(t *testing.T) {
	bare := decodeObject(t, `{"id": "a", "attributes": {"secondary_sections": {"siteName": "a", "mainSection": "/x/"}}}`)
	list := decodeObject(t, `{"id": "a", "attributes": {"secondary_sections": [{"siteName": "a", "mainSection": "/x/"}]}}`)

	for _, site := range []string{"a", "b", ""} {
		assert.Equal(t, cms.IsOnSite(bare, site), cms.IsOnSite(list, site), site)
	}
	assert.True(t, cms.IsOnSite(bare, "a"))
	assert.False(t, cms.IsOnSite(list, "b"))
	assert.Equal(t, cms.ObjectMainSite(bare), cms.ObjectMainSite(list))
	assert.Equal(t, cms.ObjectMainSection(bare), cms.ObjectMainSection(list))
}

func TestIsOnSiteMissingSections(t *testing.T) {
	for _, raw := range []string{
		`{"id": "a"}`,
		`{"id": "a", "attributes": {"secondary_sections": null}}`,
		`{"id": "a", "attributes": {"secondary_sections": "news"}}`,
		`{"id": "a", "attributes": {"secondary_sections": [{"mainSection": "/x/"}]}}`,
	} {
		obj := decodeObject(t, raw)
		assert.False(t, cms.IsOnSite(obj, "news"), raw)
		assert.Empty(t, cms.ObjectMainSite(obj), raw)
	}
	assert.False(t, cms.IsOnSite(nil, "news"))
}

func TestObjectMainSiteTakesFirstSection(t *testing.T) {
	obj := decodeObject(t, `{"id": "a", "attributes": {"secondary_sections": [
		{"siteName": "sport", "mainSection": "/football/"},
		{"siteName": "news", "mainSection": "/politics/"}
	]}}`)
	assert.Equal(t, "sport", cms.ObjectMainSite(obj))
	assert.Equal(t, "/football/", cms.ObjectMainSection(obj))
	assert.True(t, cms.IsOnSite(obj, "news"))
}

func TestCurrentLiveSite(t *testing.T) {
	pc := &content.PageContext{Site: &content.SiteContext{Site: "news[PREVIEW]", SiteStructure: testSites()}}
	assert.Equal(t, "news", cms.CurrentLiveSite(pc))
	assert.Equal(t, "news", cms.CurrentSite(pc).Name)

	pc.Site.Site = "sport"
	assert.Equal(t, "sport", cms.CurrentLiveSite(pc))
	assert.Nil(t, cms.CurrentSite(pc))

	pc.Site.Site = "odd[DRAFT]"
	assert.Equal(t, "odd[DRAFT]", cms.CurrentLiveSite(pc))

	assert.Empty(t, cms.CurrentLiveSite(nil))
	assert.Nil(t, cms.CurrentSite(nil))
}

func TestLiveHostname(t *testing.T) {
	for given, expected := range map[string]string{
		"https://news.example.com:8080": "news.example.com",
		"HTTP://www.example.com":        "www.example.com",
		"example.com":                   "example.com",
		"example.com:443":               "example.com",
		"":                              "",
	} {
		assert.Equal(t, expected, cms.LiveHostname(&content.SiteDescriptor{LiveHostname: given}), given)
	}
	assert.Empty(t, cms.LiveHostname(nil))
}

func TestSiteNameByHostname(t *testing.T) {
	sites := testSites()
	assert.Equal(t, "news", cms.SiteNameByHostname("news.example.com", sites, false))
	assert.Equal(t, "main", cms.SiteNameByHostname("www.example.com", sites, false))
	assert.Empty(t, cms.SiteNameByHostname("localhost", sites, false))
	assert.Equal(t, "main", cms.SiteNameByHostname("localhost", sites, true))
	assert.Empty(t, cms.SiteNameByHostname("news.example.com", nil, true))
	assert.Empty(t, cms.SiteNameByHostname("localhost", content.Sites{{Name: "x"}}, true))
}

func TestStaticPaths(t *testing.T) {
	paths := cms.StaticPaths(testSites())
	assert.Equal(t, []cms.StaticPath{
		{Site: "news.example.com", URL: "politics"},
		{Site: "news.example.com", URL: "sport"},
		{Site: "news.example.com", URL: ""},
		{Site: "www.example.com", URL: ""},
	}, paths)
	assert.Empty(t, cms.StaticPaths(nil))
}
