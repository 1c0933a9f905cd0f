// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package extension

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "t3compat/internal/errors"
)

const remoteYAML = `packages:
  - key: acme.news
    path: /srv/packages/acme.news/
    namespace: Acme\News
    version: 1.4.0
    active: true
`

func newKey(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func sign(t *testing.T, key *rsa.PrivateKey, body []byte) string {
	t.Helper()
	hash := sha256.Sum256(body)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hash[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sig)
}

func serve(t *testing.T, sig string, hits *int32) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if sig != "" {
			w.Header().Set(SignatureHeader, sig)
		}
		_, _ = w.Write([]byte(remoteYAML))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/packages.yaml"
}

func TestFetchRegistry_CachesPerURL(t *testing.T) {
	ClearRemoteCache()
	t.Cleanup(ClearRemoteCache)

	var hits int32
	url := serve(t, "", &hits)

	reg, err := FetchRegistry(context.Background(), url, RemoteOptions{})
	require.NoError(t, err)
	assert.True(t, reg.IsPackageActive("acme.news"))

	again, err := FetchRegistry(context.Background(), url, RemoteOptions{})
	require.NoError(t, err)
	assert.Same(t, reg, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchRegistry_Signature(t *testing.T) {
	key, pubPEM := newKey(t)

	t.Run("valid", func(t *testing.T) {
		ClearRemoteCache()
		var hits int32
		url := serve(t, sign(t, key, []byte(remoteYAML)), &hits)
		_, err := FetchRegistry(context.Background(), url, RemoteOptions{PublicKeyPEM: pubPEM})
		require.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		ClearRemoteCache()
		var hits int32
		url := serve(t, "", &hits)
		_, err := FetchRegistry(context.Background(), url, RemoteOptions{PublicKeyPEM: pubPEM})
		assert.True(t, cerrors.IsKind(err, cerrors.ConfigInvalid))
	})

	t.Run("tampered", func(t *testing.T) {
		ClearRemoteCache()
		var hits int32
		url := serve(t, sign(t, key, []byte("packages: []\n")), &hits)
		_, err := FetchRegistry(context.Background(), url, RemoteOptions{PublicKeyPEM: pubPEM})
		assert.True(t, cerrors.IsKind(err, cerrors.ConfigInvalid))
	})
	ClearRemoteCache()
}

func TestFetchRegistry_HTTPError(t *testing.T) {
	ClearRemoteCache()
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := FetchRegistry(context.Background(), srv.URL, RemoteOptions{})
	assert.True(t, cerrors.IsKind(err, cerrors.ConnectFailed))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://cms.example.org/packages.yaml"))
	assert.True(t, IsRemote("http://localhost/packages.yaml"))
	assert.False(t, IsRemote("/etc/t3compat/packages.yaml"))
}
