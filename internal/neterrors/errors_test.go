// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package neterrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, Other},
		{"deadline", fmt.Errorf("connect: %w", context.DeadlineExceeded), Timeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "db.invalid"}, DNS},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, Refused},
		{"refused text", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), Refused},
		{"tls", errors.New("tls: failed to verify certificate: x509: certificate signed by unknown authority"), TLS},
		{"auth", errors.New("password authentication failed for user \"typo3\""), Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestHints(t *testing.T) {
	assert.Empty(t, Hints(Other))
	for _, c := range []Class{Timeout, DNS, Refused, TLS} {
		assert.NotEmpty(t, Hints(c), c.String())
	}
}

func TestPresent_IgnoresOtherErrors(t *testing.T) {
	assert.False(t, Present(errors.New("syntax error"), "db:5432"))
}
