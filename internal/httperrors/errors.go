// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures into user-friendly messages.
// It classifies the cause (timeout, DNS, refused connection, TLS, server error)
// and prints troubleshooting hints naming the remote API host.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	qerrors "queryfly/cli/internal/errors"

	"github.com/pterm/pterm"
)

// Category is the kind of network failure.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
)

func (c Category) String() string {
	switch c {
	case Timeout:
		return "timeout"
	case DNS:
		return "dns"
	case ConnectionRefused:
		return "connection refused"
	case TLS:
		return "tls"
	case Server:
		return "server"
	default:
		return "network"
	}
}

// Classify determines the category of err. Checks run from most to least
// specific, so a DNS timeout counts as a timeout.
func Classify(err error) Category {
	switch {
	case err == nil:
		return Generic
	case isTimeout(err):
		return Timeout
	case isDNS(err):
		return DNS
	case isConnectionRefused(err):
		return ConnectionRefused
	case isTLS(err):
		return TLS
	case isServerError(err.Error()):
		return Server
	default:
		return Generic
	}
}

// FormatNetworkError prints hints for err to w and returns err wrapped for
// logging. action describes what was being done, e.g. "running select".
func FormatNetworkError(w io.Writer, err error, action string) error {
	if err == nil {
		return nil
	}
	host := "the API server"
	var qe *qerrors.E
	if errors.As(err, &qe) && qe.URL != "" {
		host = ExtractHostFromURL(qe.URL)
	}
	Render(w, Classify(err), host, action)
	return fmt.Errorf("network error: %w", err)
}

// Render prints the hint block for category.
func Render(w io.Writer, category Category, host, action string) {
	var title string
	var hints []string
	switch category {
	case Timeout:
		title = fmt.Sprintf("⏱️  Timed out talking to %s while %s", host, action)
		hints = []string{
			"The server took too long to respond. Check:",
			"  • The --timeout value is long enough for this query",
			"  • Server load and network latency",
		}
	case DNS:
		title = fmt.Sprintf("🌐 Cannot resolve %s while %s", host, action)
		hints = []string{
			"Please check:",
			"  • The host names in your connection config",
			"  • DNS settings and any DNS-level blocking",
		}
	case ConnectionRefused:
		title = fmt.Sprintf("🚫 Connection to %s refused while %s", host, action)
		hints = []string{
			"The server is not accepting connections. Check:",
			"  • The API service is running",
			"  • The configured protocol and port",
		}
	case TLS:
		title = fmt.Sprintf("🔒 Secure connection to %s failed while %s", host, action)
		hints = []string{
			"Cannot establish an HTTPS connection. Check:",
			"  • The server certificate",
			"  • Your system clock and proxy settings",
			"  • Whether the API expects protocol http instead",
		}
	case Server:
		title = fmt.Sprintf("⚠️  %s reported a server error while %s", host, action)
		hints = []string{"The remote API failed internally. Try again later."}
	default:
		title = fmt.Sprintf("❌ Cannot reach %s while %s", host, action)
		hints = []string{
			"Please check:",
			"  • Your network connection",
			"  • Whether the host is reachable from your network",
		}
	}

	pterm.Fprintln(w, title)
	pterm.Fprintln(w)
	for _, h := range hints {
		pterm.Fprintln(w, h)
	}
	pterm.Fprintln(w)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded")
}

func isDNS(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLS(err error) bool {
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "tls") ||
		strings.Contains(lower, "x509") ||
		strings.Contains(lower, "certificate") ||
		strings.Contains(lower, "handshake")
}

func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	for _, marker := range []string{"500 ", "502 ", "503 ", "504 ", "internal server error", "bad gateway", "service unavailable", "gateway timeout"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
