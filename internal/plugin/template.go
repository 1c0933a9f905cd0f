// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package plugin

import (
	"html"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/sqlbuild"
)

// TemplateName is the name the template plugin is registered under.
const TemplateName = "template"

func init() {
	Register(TemplateName, func() any { return &TemplatePlugin{} })
}

// TemplatePlugin renders a marker based HTML template. It reads:
//
//	templateFile  path of the template, read through the content object
//	subpart       optional subpart marker, e.g. ###CONTENT###
//	markers.      map of marker names to values, e.g. {title: News}
//	wrap          optional "left|right" wrap of the result
//
// Request arguments are available as ###PIVAR_<NAME>### (HTML escaped) and
// ###LINK### links back to the plugin.
type TemplatePlugin struct {
	Base
}

func (p *TemplatePlugin) Main(content string, conf Config) (string, error) {
	p.PiSetPiVarDefaults()

	file, _ := conf["templateFile"].(string)
	if file == "" {
		return "", cerrors.New(cerrors.InvalidArgument, "template plugin: templateFile is not configured")
	}
	tmpl, err := p.CObj.FileResource(file)
	if err != nil {
		return "", err
	}
	if subpart, _ := conf["subpart"].(string); subpart != "" {
		tmpl = p.CObj.GetSubpart(tmpl, subpart)
	}

	markers := map[string]string{
		"###LINK###": html.EscapeString(p.PiGetPageLink(0, "", nil)),
	}
	if m, ok := conf["markers."].(map[string]any); ok {
		for k, v := range m {
			markers[markerName(k)] = sqlbuild.Stringify(v)
		}
	}
	for k, v := range p.PiVars {
		markers[markerName("pivar_"+k)] = html.EscapeString(sqlbuild.Stringify(v))
	}

	out := p.CObj.SubstituteMarkerArrayCached(tmpl, markers)
	if strings.Contains(out, "###") {
		p.Notice("template " + file + " has markers without a value")
	}
	if wrap, _ := conf["wrap"].(string); wrap != "" {
		out = p.CObj.Wrap(out, wrap)
	}
	return p.PiWrapInBaseClass(out), nil
}

func markerName(name string) string {
	return "###" + strings.ToUpper(name) + "###"
}

// LoadConfigs reads plugin configurations from a YAML file mapping plugin
// names to their configuration.
func LoadConfigs(fs afero.Fs, path string) (map[string]Config, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ConfigInvalid, "read plugin configuration", err)
	}
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, cerrors.Wrap(cerrors.ConfigInvalid, "parse plugin configuration "+path, err)
	}
	out := make(map[string]Config, len(raw))
	for name, conf := range raw {
		out[name] = Config(conf)
	}
	return out, nil
}
