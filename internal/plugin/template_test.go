// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package plugin

import (
	"net/url"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"t3compat/internal/diagnostics"
	cerrors "t3compat/internal/errors"
)

const newsTemplate = `<html>
<!-- ###CONTENT### begin --><h1>###TITLE###</h1><p>Page ###PIVAR_PAGE###</p><a href="###LINK###">self</a>###MISSING###<!-- ###CONTENT### end -->
</html>`

func TestTemplatePlugin(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmpl/news.html", []byte(newsTemplate), 0o644))

	guard := diagnostics.NewGuard(nil)
	req := &Request{Arguments: url.Values{"page": {"<2>"}}, Plugin: TemplateName}
	w := NewWrapper(&ControllerContext{Request: req, URIBuilder: NewURLBuilder("/plugins/template")}, fs, guard)

	out, err := w.WrapPlugin(&TemplatePlugin{}, Config{
		"templateFile": "/tmpl/news.html",
		"subpart":      "###CONTENT###",
		"markers.":     map[string]any{"title": "News", "missing": ""},
		"wrap":         `<div class="news">|</div>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "<!-- Wrapped by t3compat. -->\n"+
		`<div class="news"><h1>News</h1><p>Page &lt;2&gt;</p><a href="/plugins/template">self</a></div>`, out)
}

func TestTemplatePlugin_NoticeForUnreplacedMarkers(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/t.html", []byte("###UNKNOWN###"), 0o644))

	guard := diagnostics.NewGuard(nil)
	w := NewWrapper(nil, fs, guard)

	out, err := w.WrapPlugin(&TemplatePlugin{}, Config{"templateFile": "/t.html"})
	require.NoError(t, err)
	assert.Contains(t, out, "###UNKNOWN###")
	assert.Equal(t, int64(1), guard.Suppressed())
}

func TestTemplatePlugin_Errors(t *testing.T) {
	w := NewWrapper(nil, afero.NewMemMapFs(), diagnostics.NewGuard(nil))

	_, err := w.WrapPlugin(&TemplatePlugin{}, nil)
	assert.True(t, cerrors.IsKind(err, cerrors.InvalidArgument))

	_, err = w.WrapPlugin(&TemplatePlugin{}, Config{"templateFile": "/nope.html"})
	assert.True(t, cerrors.IsKind(err, cerrors.NotFound))
}

func TestTemplatePlugin_Registered(t *testing.T) {
	f, ok := Lookup(TemplateName)
	require.True(t, ok)
	assert.IsType(t, &TemplatePlugin{}, f())
}

func TestLoadConfigs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/plugins.yaml", []byte(`
template:
  templateFile: /srv/templates/news.html
  markers.:
    title: Latest news
  _DEFAULT_PI_VARS.:
    page: 1
`), 0o644))

	confs, err := LoadConfigs(fs, "/plugins.yaml")
	require.NoError(t, err)
	conf := confs[TemplateName]
	assert.Equal(t, "/srv/templates/news.html", conf["templateFile"])
	assert.Equal(t, map[string]any{"title": "Latest news"}, conf["markers."])
	assert.Equal(t, map[string]any{"page": 1}, conf["_DEFAULT_PI_VARS."])

	_, err = LoadConfigs(fs, "/missing.yaml")
	assert.True(t, cerrors.IsKind(err, cerrors.ConfigInvalid))
}
