// Package xmlcontent turns the XML content blob of CMS articles and liveblogs
// into a traversable element tree.
package xmlcontent

import (
	"strings"

	"github.com/beevik/etree"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrEmptyDocument is returned for blobs without a root element
var ErrEmptyDocument = errors.New("document has no root element")

// Tree parsed content document
type Tree struct {
	doc *etree.Document
}

// Node is the JSON projection of a document token handed to renderers
type Node struct {
	Type       string            `json:"type"`
	Name       string            `json:"name,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Elements   []*Node           `json:"elements,omitempty"`
	Text       string            `json:"text,omitempty"`
	CData      string            `json:"cdata,omitempty"`
	Comment    string            `json:"comment,omitempty"`
}

const (
	NodeTypeElement = "element"
	NodeTypeText    = "text"
	NodeTypeCData   = "cdata"
	NodeTypeComment = "comment"
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// Parse parses an XML blob
func Parse(data string) (*Tree, error) {
	if strings.TrimSpace(data) == "" {
		return nil, ErrEmptyDocument
	}
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromString(data); err != nil {
		return nil, errors.Wrap(err, "failed to parse content xml")
	}
	if doc.Root() == nil {
		return nil, ErrEmptyDocument
	}
	return &Tree{doc: doc}, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Root returns the document element
func (t *Tree) Root() *etree.Element {
	if t == nil || t.doc == nil {
		return nil
	}
	return t.doc.Root()
}

// Find returns every element whose name is one of names, in document order.
// The root element itself is included when it matches.
func (t *Tree) Find(names ...string) []*etree.Element {
	root := t.Root()
	if root == nil || len(names) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	var found []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if _, ok := wanted[el.FullTag()]; ok {
			found = append(found, el)
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(root)
	return found
}

// First returns the first element matching one of names or nil
func (t *Tree) First(names ...string) *etree.Element {
	if found := t.Find(names...); len(found) > 0 {
		return found[0]
	}
	return nil
}

// Text returns the trimmed character data of all descendants of el
func Text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, token := range el.Child {
			switch v := token.(type) {
			case *etree.CharData:
				sb.WriteString(v.Data)
			case *etree.Element:
				walk(v)
			}
		}
	}
	walk(el)
	return strings.TrimSpace(sb.String())
}

// Nodes converts the document into its JSON projection
func (t *Tree) Nodes() []*Node {
	root := t.Root()
	if root == nil {
		return nil
	}
	return []*Node{toNode(root)}
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"elements": t.Nodes(),
	})
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func toNode(el *etree.Element) *Node {
	node := &Node{
		Type: NodeTypeElement,
		Name: el.FullTag(),
	}
	if len(el.Attr) > 0 {
		node.Attributes = make(map[string]string, len(el.Attr))
		for _, attr := range el.Attr {
			node.Attributes[attr.FullKey()] = attr.Value
		}
	}
	for _, token := range el.Child {
		switch v := token.(type) {
		case *etree.Element:
			node.Elements = append(node.Elements, toNode(v))
		case *etree.CharData:
			if v.IsCData() {
				node.Elements = append(node.Elements, &Node{Type: NodeTypeCData, CData: v.Data})
				continue
			}
			// whitespace between elements is formatting only
			if v.IsWhitespace() {
				continue
			}
			node.Elements = append(node.Elements, &Node{Type: NodeTypeText, Text: v.Data})
		case *etree.Comment:
			node.Elements = append(node.Elements, &Node{Type: NodeTypeComment, Comment: v.Data})
		}
	}
	return node
}
