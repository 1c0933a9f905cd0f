// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package extension

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	cerrors "t3compat/internal/errors"
)

// SignatureHeader carries the base64 RSA-SHA256 signature of a remote
// registry body.
const SignatureHeader = "X-Registry-Signature"

// maxRegistrySize bounds the body read from a remote registry.
const maxRegistrySize = 4 << 20

// RemoteOptions configures FetchRegistry.
type RemoteOptions struct {
	// Client defaults to a client with a 15 second timeout.
	Client *http.Client
	// PublicKeyPEM, when set, makes the signature header mandatory.
	PublicKeyPEM []byte
}

// Remote registries are cached for the lifetime of the process.
var (
	remoteCache   = map[string]*FileRegistry{}
	remoteCacheMu sync.RWMutex
)

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "https://") || strings.HasPrefix(location, "http://")
}

// FetchRegistry downloads the YAML package list at url. Successful results
// are cached per url.
func FetchRegistry(ctx context.Context, url string, opts RemoteOptions) (*FileRegistry, error) {
	remoteCacheMu.RLock()
	cached := remoteCache[url]
	remoteCacheMu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	body, sig, err := fetch(ctx, url, opts.Client)
	if err != nil {
		return nil, err
	}
	if len(opts.PublicKeyPEM) > 0 {
		if sig == "" {
			return nil, cerrors.New(cerrors.ConfigInvalid, "package registry "+url+" is not signed")
		}
		if err := verifySignature(body, sig, opts.PublicKeyPEM); err != nil {
			return nil, cerrors.Wrap(cerrors.ConfigInvalid, "verify package registry "+url, err)
		}
	}
	reg, err := parseRegistry(body, url)
	if err != nil {
		return nil, err
	}

	remoteCacheMu.Lock()
	remoteCache[url] = reg
	remoteCacheMu.Unlock()
	return reg, nil
}

// ClearRemoteCache forgets all fetched registries.
func ClearRemoteCache() {
	remoteCacheMu.Lock()
	defer remoteCacheMu.Unlock()
	remoteCache = map[string]*FileRegistry{}
}

func fetch(ctx context.Context, url string, client *http.Client) ([]byte, string, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", cerrors.Wrap(cerrors.InvalidArgument, "package registry url", err)
	}
	req.Header.Set("Accept", "application/yaml, text/yaml")
	req.Header.Set("User-Agent", "t3compat")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", cerrors.Wrap(cerrors.ConnectFailed, "fetch package registry", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", cerrors.New(cerrors.ConnectFailed, fmt.Sprintf("fetch package registry: server returned status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRegistrySize))
	if err != nil {
		return nil, "", cerrors.Wrap(cerrors.ConnectFailed, "read package registry", err)
	}
	return body, resp.Header.Get(SignatureHeader), nil
}

func verifySignature(body []byte, signatureB64 string, publicKeyPEM []byte) error {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	block, _ := pem.Decode(publicKeyPEM)
	if block == nil {
		return errors.New("no PEM block in public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return errors.New("not an RSA public key")
	}
	hash := sha256.Sum256(body)
	if err := rsa.VerifyPKCS1v15(rsaPub, crypto.SHA256, hash[:], sig); err != nil {
		return fmt.Errorf("signature mismatch: %w", err)
	}
	return nil
}
