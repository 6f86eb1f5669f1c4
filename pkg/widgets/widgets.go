// Package widgets resolves the parameters of widgets linked into pages from
// their link data and configured defaults.
package widgets

import (
	_ "embed"
	"os"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/navigate"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Weather widget type and its parameters
const (
	Weather       = "weather"
	ParamLocation = "location"
	ParamType     = "type"
)

//go:embed defaults.yaml
var defaults []byte

type (
	// Config widget type => widget
	Config map[string]*Widget
	Widget struct {
		Params []Param `yaml:"params"`
	}
	Param struct {
		Name         string `yaml:"name"`
		DefaultValue string `yaml:"defaultValue"`
	}
)

// Defaults the built in widget configuration
func Defaults() Config {
	c, err := Parse(defaults)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse parses a yaml widget configuration
func Parse(data []byte) (Config, error) {
	c := Config{}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse widget config")
	}
	return c, nil
}

// Load reads the widget configuration at path, the defaults for ""
func Load(path string) (Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read widget config %s", path)
	}
	return Parse(data)
}

// Default default value of param of widget
func (c Config) Default(widget, param string) (string, bool) {
	w, ok := c[widget]
	if !ok || w == nil {
		return "", false
	}
	for _, p := range w.Params {
		if p.Name == param {
			return p.DefaultValue, true
		}
	}
	return "", false
}

// Parameters resolves the configured parameters of the widget pc: link
// parameters first, then defaults. Widgets without configuration yield nil.
func (c Config) Parameters(pc *content.PageContext) map[string]string {
	data := pc.Data()
	if data == nil || data.Sys.BaseType != content.BaseTypeWidget {
		return nil
	}
	w, ok := c[data.Sys.Type]
	if !ok || w == nil {
		return nil
	}
	var linkData map[string]any
	if pc.LinkContext != nil {
		linkData = pc.LinkContext.LinkData
	}
	ret := make(map[string]string, len(w.Params))
	for _, p := range w.Params {
		value := ""
		if v, ok := navigate.Get(linkData, "parameters", p.Name); ok {
			value = cast.ToString(v)
		}
		if value == "" {
			value = p.DefaultValue
		}
		ret[p.Name] = value
	}
	return ret
}
