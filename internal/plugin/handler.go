// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package plugin

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"t3compat/internal/diagnostics"
	"t3compat/internal/sqlbuild"
)

// URLBuilder builds links relative to a base path. The index action maps to
// the base path itself; other actions are appended as a path segment.
type URLBuilder struct {
	base string
	args map[string]any
}

// NewURLBuilder creates a URLBuilder for base, e.g. "/plugins/news".
func NewURLBuilder(base string) *URLBuilder {
	return &URLBuilder{base: strings.TrimRight(base, "/")}
}

func (u *URLBuilder) Reset() URIBuilder {
	u.args = nil
	return u
}

func (u *URLBuilder) SetArguments(args map[string]any) URIBuilder {
	u.args = args
	return u
}

func (u *URLBuilder) URIFor(action string) string {
	path := u.base
	if action != "" && action != "index" {
		path += "/" + url.PathEscape(action)
	}
	if path == "" {
		path = "/"
	}
	if len(u.args) == 0 {
		return path
	}
	q := make(url.Values, len(u.args))
	for k, v := range u.args {
		q.Set(k, sqlbuild.Stringify(v))
	}
	return path + "?" + q.Encode()
}

// HandlerOptions configures Handler.
type HandlerOptions struct {
	Registry *Registry
	// Configs holds the configuration per plugin name.
	Configs map[string]Config
	Fs      afero.Fs
	Guard   *diagnostics.Guard
	Logger  *zap.Logger
	// BasePath is the route prefix the handler is mounted under.
	BasePath string
}

// Handler renders the plugin named by the ":name" route parameter as the
// response body.
func Handler(opts HandlerOptions) gin.HandlerFunc {
	reg := opts.Registry
	if reg == nil {
		reg = Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimRight(opts.BasePath, "/")

	return func(c *gin.Context) {
		name := c.Param("name")
		factory, ok := reg.Lookup(name)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown plugin: " + name})
			return
		}

		req := &Request{HTTP: c.Request, Arguments: c.Request.URL.Query(), Plugin: name}
		ctx := &ControllerContext{
			Request:    req,
			URIBuilder: NewURLBuilder(base + "/" + name),
			Guard:      opts.Guard,
		}
		w := NewWrapper(ctx, opts.Fs, opts.Guard)

		content, err := w.WrapPlugin(factory(), opts.Configs[name])
		if err != nil {
			log.Error("plugin failed", zap.String("plugin", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(content))
	}
}

// Routes mounts Handler under opts.BasePath, plus a listing of the
// registered plugin names.
func Routes(r gin.IRouter, opts HandlerOptions) {
	reg := opts.Registry
	if reg == nil {
		reg = Default()
	}
	base := strings.TrimRight(opts.BasePath, "/")
	listPath := base
	if listPath == "" {
		listPath = "/"
	}
	r.GET(listPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"plugins": reg.Names()})
	})
	r.GET(base+"/:name", Handler(opts))
}
