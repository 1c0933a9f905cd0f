// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package neterrors turns network failures while reaching a database or a
// remote registry into user-friendly messages.
package neterrors

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Class is the kind of network failure.
type Class int

const (
	Other Class = iota
	Timeout
	DNS
	Refused
	TLS
)

func (c Class) String() string {
	switch c {
	case Timeout:
		return "timeout"
	case DNS:
		return "dns"
	case Refused:
		return "connection refused"
	case TLS:
		return "tls"
	}
	return "other"
}

// Classify reports which kind of network failure err is. Errors that are not
// network failures, such as authentication or SQL errors, are Other.
func Classify(err error) Class {
	switch {
	case err == nil:
		return Other
	case isTimeout(err):
		return Timeout
	case isDNS(err):
		return DNS
	case isRefused(err):
		return Refused
	case isTLS(err):
		return TLS
	}
	return Other
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "i/o timeout") || strings.Contains(s, "deadline exceeded")
}

func isDNS(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such host")
}

func isRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLS(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "tls") ||
		strings.Contains(s, "x509") ||
		strings.Contains(s, "certificate")
}

// Hints returns troubleshooting lines for c.
func Hints(c Class) []string {
	switch c {
	case Timeout:
		return []string{
			"The server is slow or unreachable",
			"A firewall may drop the connection",
		}
	case DNS:
		return []string{
			"Check the host name in the DSN",
			"Check the DNS settings of this machine",
		}
	case Refused:
		return []string{
			"The server is not running or listens on another port",
			"Check host and port in the DSN",
		}
	case TLS:
		return []string{
			"Check the server certificate and the sslmode/tls parameter",
			"Check the system date and time",
		}
	}
	return nil
}

// Present prints a message for err while reaching target, e.g. "db:5432".
// It reports false, printing nothing, when err is not a network failure.
func Present(err error, target string) bool {
	c := Classify(err)
	if c == Other {
		return false
	}
	pterm.Error.Printfln("Cannot reach %s (%s)", target, c)
	for _, h := range Hints(c) {
		pterm.Println("  • " + h)
	}
	pterm.Println()
	return true
}
