// Package validation checks feed URLs before they are stored or fetched.
package validation

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// ErrInvalidURL is wrapped by every rejection.
var ErrInvalidURL = errors.New("invalid URL")

// FeedURLValidator normalizes feed URLs and rejects ones that point at the
// local machine or private networks.
type FeedURLValidator struct {
	AllowLocalhost  bool
	AllowPrivateIPs bool
	MaxLength       int
}

// NewFeedURLValidator blocks localhost and private addresses.
func NewFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{MaxLength: 2048}
}

// NewPermissiveFeedURLValidator allows local development servers.
func NewPermissiveFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

func reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidURL, fmt.Sprintf(format, args...))
}

// ValidateAndNormalize returns the canonical form of input. A missing
// scheme defaults to https.
func (v *FeedURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", reject("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", reject("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", reject("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", reject("invalid URL format: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", reject("URL must use http or https protocol")
	}
	if parsed.Hostname() == "" {
		return "", reject("URL must have a valid hostname")
	}
	if err := v.checkHost(parsed.Hostname()); err != nil {
		return "", err
	}
	if strings.Contains(parsed.Path, "..") {
		return "", reject("directory traversal patterns not allowed in URL path")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	return parsed.String(), nil
}

func (v *FeedURLValidator) checkHost(hostname string) error {
	host := strings.ToLower(hostname)

	if !v.AllowLocalhost && (host == "localhost" || strings.HasSuffix(host, ".localhost")) {
		return reject("localhost URLs are not permitted")
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	if addr.IsUnspecified() || net.IP(addr.AsSlice()).Equal(net.IPv4bcast) {
		return reject("address %s is not routable", host)
	}
	if addr.IsLoopback() && !v.AllowLocalhost {
		return reject("localhost URLs are not permitted")
	}
	if !v.AllowPrivateIPs && (addr.IsPrivate() || addr.IsLinkLocalUnicast()) {
		return reject("private IP addresses are not permitted")
	}
	return nil
}
