package cms_test

import (
	"testing"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(pcs []*content.PageContext) []string {
	ret := make([]string, len(pcs))
	for i, pc := range pcs {
		ret[i] = pc.Data().ID
	}
	return ret
}

func TestLinkedObjects(t *testing.T) {
	s := newShaper(t)
	pc := homePageContext(t, s)

	main := s.LinkedObjects(pc, "main")
	require.Equal(t, []string{"a1", "f1", "w1"}, ids(main), "dangling references are omitted")

	assert.Equal(t, "hero", main[0].LinkTemplate())
	assert.Equal(t, content.TemplateSourceLink, main[0].LinkContext.TemplateSource)
	assert.Equal(t, map[string]any{"template": "hero"}, main[0].LinkContext.LinkData)
	assert.Equal(t, "section_teaser", main[1].LinkTemplate())
	assert.Empty(t, main[2].LinkTemplate())
	assert.Equal(t, content.TemplateSourceNone, main[2].LinkContext.TemplateSource)

	for _, child := range main {
		assert.Same(t, pc.Page, child.Page)
		assert.Same(t, pc.Site, child.Site)
	}

	assert.Empty(t, s.LinkedObjects(pc, "side"))
	assert.NotNil(t, s.LinkedObjects(pc, "side"))
	assert.Empty(t, s.LinkedObjects(pc, "orphan"))
}

func TestLinkedObjectsAllZones(t *testing.T) {
	s := newShaper(t)
	pc := homePageContext(t, s)
	all := s.LinkedObjects(pc, "")
	assert.Equal(t, []string{"a2", "a1", "f1", "w1"}, ids(all))
}

func TestLinkedObjectsNoDeduplication(t *testing.T) {
	s := newShaper(t)
	obj := decodeObject(t, `{
		"id": "p1",
		"sys": {"baseType": "webpage"},
		"files": {"content": {"data": {"zones": ["a", "b"]}}},
		"links": {"pagelink": {"a": [{"targetId": "x"}], "b": [{"targetId": "x"}]}}
	}`)
	payload := &content.PagePayload{Model: content.Model{
		Data:  obj,
		Nodes: content.Nodes{"x": {ID: "x", Sys: content.Sys{BaseType: content.BaseTypeArticle}}},
	}}
	pc := s.BuildPageContext(payload, nil, "news", "/", nil)
	assert.Equal(t, []string{"x", "x"}, ids(s.LinkedObjects(pc, "")))
}

func TestLinkedObjectsNested(t *testing.T) {
	s := newShaper(t)
	pc := homePageContext(t, s)
	fragment := s.LinkedObjects(pc, "main")[1]
	require.Equal(t, "f1", fragment.Data().ID)

	items := s.LinkedObjects(fragment, "items")
	require.Equal(t, []string{"a1"}, ids(items))
	assert.Equal(t, "head-pic", items[0].LinkTemplate())
	assert.Same(t, pc.Page, items[0].Page)
	require.NotNil(t, items[0].Helper())
	assert.NotNil(t, items[0].Helper().Content)
}

func TestLinkedObjectsWithoutHelper(t *testing.T) {
	s := newShaper(t)
	pc := homePageContext(t, s)
	article := s.MaterializeID("a1", pc, nil)
	assert.Empty(t, s.LinkedObjects(article, "main"))
	assert.Empty(t, s.LinkedObjects(article, ""))
	assert.Empty(t, s.LinkedObjects(nil, "main"))
}

func TestQueryResultObjects(t *testing.T) {
	s := newShaper(t)
	query := decodeObject(t, `{"id": "q1", "sys": {"baseType": "query"}, "children": ["a1", "missing", "a2", "a3", "a4"]}`)
	payload := &content.PagePayload{Model: content.Model{
		Data: query,
		Nodes: content.Nodes{
			"a1": decodeObject(t, `{"id": "a1", "sys": {"baseType": "article"}, "attributes": {"secondary_sections": {"siteName": "news"}}}`),
			"a2": decodeObject(t, `{"id": "a2", "sys": {"baseType": "article"}, "attributes": {"secondary_sections": [{"siteName": "sport"}, {"siteName": "news"}]}}`),
			"a3": decodeObject(t, `{"id": "a3", "sys": {"baseType": "article"}, "attributes": {"secondary_sections": {"siteName": "sport"}}}`),
			"a4": decodeObject(t, `{"id": "a4", "sys": {"baseType": "article"}}`),
		},
	}}

	for _, site := range []string{"news", "news[PREVIEW]"} {
		pc := s.BuildPageContext(payload, nil, site, "/", nil)
		results := s.QueryResultObjects(pc)
		require.Equal(t, []string{"a1", "a2"}, ids(results), site)
		for _, result := range results {
			assert.Equal(t, cms.LinkTemplateList, result.LinkTemplate())
			assert.Equal(t, content.TemplateSourceFixed, result.LinkContext.TemplateSource)
			assert.Nil(t, result.LinkContext.LinkData)
		}
	}
	assert.NotNil(t, s.QueryResultObjects(nil))
	assert.Empty(t, s.QueryResultObjects(nil))
}

func TestSearchResultObjects(t *testing.T) {
	s := newShaper(t)
	pc := homePageContext(t, s)
	assert.Empty(t, s.SearchResultObjects(pc))

	pc.SearchResults = &content.SearchResultSet{
		Count: 3,
		Result: []*content.SearchHit{
			{NodeData: &content.Object{ID: "s1", Sys: content.Sys{BaseType: content.BaseTypeArticle}}},
			{},
			nil,
			{NodeData: &content.Object{ID: "s2", Sys: content.Sys{BaseType: content.BaseTypeLiveblog}}},
		},
	}
	results := s.SearchResultObjects(pc)
	require.Equal(t, []string{"s1", "s2"}, ids(results))
	assert.Equal(t, cms.LinkTemplateList, results[1].LinkTemplate())
	assert.Same(t, pc.Page, results[0].Page)
}

func TestSectionChildrenObjects(t *testing.T) {
	s := newShaper(t)
	c1 := &content.Object{ID: "c1", Sys: content.Sys{BaseType: content.BaseTypeArticle}}
	c2 := &content.Object{ID: "c2", Sys: content.Sys{BaseType: content.BaseTypeArticle}}
	payload := &content.PagePayload{Model: content.Model{
		Data:     &content.Object{ID: "s1", Sys: content.Sys{BaseType: content.BaseTypeSection}},
		Nodes:    content.Nodes{"c1": c1, "c2": c2},
		Children: []string{"c1", "c2"},
	}}
	pc := s.BuildPageContext(payload, nil, "news", "/politics", nil)
	require.Nil(t, pc.Helper())

	children := s.SectionChildrenObjects(pc)
	require.Len(t, children, 2)
	assert.Same(t, c1, children[0].Data())
	assert.Same(t, c2, children[1].Data())
	for _, child := range children {
		assert.Equal(t, cms.LinkTemplateList, child.LinkTemplate())
		assert.Same(t, pc.Page, child.Page)
		assert.Same(t, pc.Site, child.Site)
	}

	payload.Model.Children = []string{"c2", "gone", "c1"}
	pc = s.BuildPageContext(payload, nil, "news", "/politics", nil)
	assert.Equal(t, []string{"c2", "c1"}, ids(s.SectionChildrenObjects(pc)))
}
