package helper

import (
	"fmt"
	"net/netip"
	"strings"

	"golang.org/x/net/idna"

	"github.com/Septrum101/cfddns/common/ddns"
)

// ParseIPv4 returns the canonical form of an IPv4 address. IPv4-mapped IPv6
// addresses are unmapped, anything else is rejected.
func ParseIPv4(s string) (string, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ddns.ErrFormat, s, err)
	}

	addr = addr.Unmap()
	if !addr.Is4() {
		return "", fmt.Errorf("%w: %q is not an IPv4 address", ddns.ErrFormat, s)
	}
	return addr.String(), nil
}

// NormalizeName lower-cases a host name, strips the trailing dot and converts
// internationalized labels to their ASCII form.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	if name == "" {
		return "", fmt.Errorf("empty record name")
	}

	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return "", fmt.Errorf("invalid record name %q: %w", name, err)
	}
	return strings.ToLower(ascii), nil
}
