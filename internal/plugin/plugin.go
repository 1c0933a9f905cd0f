// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package plugin runs legacy content plugins from inside a controller action.
//
// A plugin is any value with a Main(content, conf) method. Plugins usually
// embed Base, which receives the configuration, the content object, the
// current request and the controller context before Main is called and
// offers the legacy pi_* helpers.
package plugin

import (
	"fmt"
	"html"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"t3compat/internal/contentobject"
	"t3compat/internal/diagnostics"
)

// Config is the plugin configuration. It is passed to the plugin unmodified.
type Config map[string]any

// Plugin is a legacy plugin entry point.
type Plugin interface {
	Main(content string, conf Config) (string, error)
}

// Initializer is implemented by plugins that want the injected fields.
// Base implements it.
type Initializer interface {
	Initialize(conf Config, cObj *contentobject.Renderer, req *Request, ctx *ControllerContext)
}

// Request is the current request as seen by a plugin.
type Request struct {
	HTTP *http.Request
	// Arguments holds the request arguments addressed to the plugin.
	Arguments url.Values
	// Plugin is the name the plugin was invoked under.
	Plugin string
}

// URIBuilder creates links to controller actions.
type URIBuilder interface {
	Reset() URIBuilder
	SetArguments(args map[string]any) URIBuilder
	URIFor(action string) string
}

// ControllerContext is the context of the controller action running the plugin.
type ControllerContext struct {
	Request    *Request
	URIBuilder URIBuilder
	// Guard receives notices reported by the plugin. Nil means the
	// process-wide guard.
	Guard *diagnostics.Guard
}

const baseClassComment = "<!-- Wrapped by t3compat. -->"

// defaultPiVarsKey is the configuration key holding piVars defaults.
const defaultPiVarsKey = "_DEFAULT_PI_VARS."

// Base carries the injected plugin fields and the pi_* helpers.
type Base struct {
	Config Config
	// Conf is the same mapping as Config; legacy plugins read either.
	Conf   Config
	CObj   *contentobject.Renderer
	PiVars map[string]any

	Request *Request
	context *ControllerContext
}

// Initialize stores the injected fields.
func (b *Base) Initialize(conf Config, cObj *contentobject.Renderer, req *Request, ctx *ControllerContext) {
	b.Config = conf
	b.Conf = conf
	b.CObj = cObj
	b.Request = req
	b.context = ctx
	if b.PiVars == nil {
		b.PiVars = make(map[string]any)
	}
	if req != nil {
		for k, v := range req.Arguments {
			if len(v) > 0 {
				b.PiVars[k] = v[0]
			}
		}
	}
}

// ControllerContext returns the context injected by Initialize.
func (b *Base) ControllerContext() *ControllerContext {
	return b.context
}

// PiWrapInBaseClass marks content as produced by a wrapped plugin.
func (b *Base) PiWrapInBaseClass(content string) string {
	return baseClassComment + "\n" + content
}

// PiGetPageLink returns a link to the index action carrying params. The page
// id and target are accepted for compatibility; routing is left to the URI
// builder.
func (b *Base) PiGetPageLink(pageID int, target string, params map[string]any) string {
	if b.context == nil || b.context.URIBuilder == nil {
		return ""
	}
	return b.context.URIBuilder.Reset().SetArguments(params).URIFor("index")
}

// PiLinkToPage wraps str in an anchor pointing at PiGetPageLink.
func (b *Base) PiLinkToPage(str string, pageID int, target string, params map[string]any) string {
	href := b.PiGetPageLink(pageID, target, params)
	if target != "" {
		return fmt.Sprintf(`<a href="%s" target="%s">%s</a>`, html.EscapeString(href), html.EscapeString(target), str)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), str)
}

// PiSetPiVarDefaults fills PiVars from the "_DEFAULT_PI_VARS." configuration
// for every key the request did not set.
func (b *Base) PiSetPiVarDefaults() {
	defaults, ok := b.Conf[defaultPiVarsKey].(map[string]any)
	if !ok {
		return
	}
	if b.PiVars == nil {
		b.PiVars = make(map[string]any, len(defaults))
	}
	for k, v := range defaults {
		if _, set := b.PiVars[k]; !set {
			b.PiVars[k] = v
		}
	}
}

// PiLoadLL loads the plugin's language labels. Labels are not supported;
// the call does nothing.
func (b *Base) PiLoadLL() {}

// Notice reports a legacy notice. It is dropped while the plugin runs under
// a Wrapper.
func (b *Base) Notice(msg string) bool {
	name := ""
	if b.Request != nil {
		name = b.Request.Plugin
	}
	guard := diagnostics.Default()
	if b.context != nil && b.context.Guard != nil {
		guard = b.context.Guard
	}
	return guard.Report(diagnostics.Notice, msg, zap.String("plugin", name))
}
