package content_test

import (
	"testing"

	"github.com/foomo/cmsfront/content"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func decode(t *testing.T, s string) *content.Object {
	t.Helper()
	obj := &content.Object{}
	require.NoError(t, json.Unmarshal([]byte(s), obj))
	return obj
}

func TestObjectZoneOrder(t *testing.T) {
	obj := decode(t, `{
		"id": "p1",
		"sys": {"baseType": "webpage", "type": "webpage"},
		"files": {"content": {"data": {
			"pageTemplate": "home",
			"zones": {"top": {}, "main": {"x": 1}, "aside": {}, "bottom": {}}
		}}}
	}`)
	layout := obj.Layout()
	require.NotNil(t, layout)
	assert.Equal(t, []string{"top", "main", "aside", "bottom"}, layout.Zones)
	assert.Equal(t, "home", layout.PageTemplate)
	_, ok := obj.ContentXML()
	assert.False(t, ok)
}

func TestObjectZoneList(t *testing.T) {
	obj := decode(t, `{"id": "p1", "sys": {"baseType": "webpage"},
		"files": {"content": {"data": {"zones": ["main", "side"]}}}}`)
	require.NotNil(t, obj.Layout())
	assert.Equal(t, []string{"main", "side"}, obj.Layout().Zones)
}

func TestObjectXMLContent(t *testing.T) {
	obj := decode(t, `{"id": "a1", "sys": {"baseType": "article"},
		"files": {"content": {"data": "<document><headline>h</headline></document>"}}}`)
	s, ok := obj.ContentXML()
	assert.True(t, ok)
	assert.Contains(t, s, "<headline>")
	assert.Nil(t, obj.Layout())
}

func TestObjectToleratesOddShapes(t *testing.T) {
	obj := decode(t, `{"id": "a1", "sys": {"baseType": "article"},
		"files": {"content": 42},
		"links": {"pagelink": {"main": [{"targetId": "x"}]}, "system": ["not", "zones"]}}`)
	assert.Nil(t, obj.Layout())
	_, ok := obj.ContentXML()
	assert.False(t, ok)
	require.Len(t, obj.PageLinks()["main"], 1)
	assert.NotContains(t, obj.Links, "system")
}

func TestObjectSectionsNormalized(t *testing.T) {
	single := decode(t, `{"id": "a", "sys": {"baseType": "article"},
		"attributes": {"secondary_sections": {"siteName": "a", "mainSection": "/sport/"}}}`)
	list := decode(t, `{"id": "b", "sys": {"baseType": "article"},
		"attributes": {"secondary_sections": [{"siteName": "a", "mainSection": "/sport/"}, {"siteName": "b"}]}}`)

	assert.Equal(t, []content.SiteSection{{SiteName: "a", MainSection: "/sport/"}}, single.Sections)
	require.Len(t, list.Sections, 2)
	assert.Equal(t, single.Sections[0], list.Sections[0])
	assert.Equal(t, "b", list.Sections[1].SiteName)
}

func TestObjectMarshalKeepsPayload(t *testing.T) {
	in := `{"id":"a","sys":{"baseType":"article"},"custom":{"kept":true}}`
	obj := decode(t, in)
	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestLinkMetadata(t *testing.T) {
	link := content.Link{TargetID: "w", Metadata: map[string]any{
		"type":       "widget",
		"template":   "list",
		"parameters": map[string]any{"location": "Paris"},
	}}
	assert.Equal(t, "widget", link.Type())
	assert.Equal(t, "list", link.Template())
	assert.Equal(t, "Paris", link.Parameters()["location"])
	assert.Empty(t, content.Link{}.Template())
}

func TestBaseTypeKnown(t *testing.T) {
	assert.True(t, content.BaseTypeLiveblog.Known())
	assert.False(t, content.BaseType("podcast").Known())
}

func TestNodesGet(t *testing.T) {
	var nodes content.Nodes
	assert.Nil(t, nodes.Get("x"))
	nodes = content.Nodes{"x": {ID: "x"}}
	assert.Equal(t, "x", nodes.Get("x").ID)
}
