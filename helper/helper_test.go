package helper

import (
	"errors"
	"testing"

	"github.com/Septrum101/cfddns/common/ddns"
)

func TestParseIPv4(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.2.3.4", "1.2.3.4", false},
		{" 203.0.113.7\n", "203.0.113.7", false},
		{"::ffff:1.2.3.4", "1.2.3.4", false},
		{"2001:db8::1", "", true},
		{"not an ip", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseIPv4(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ddns.ErrFormat) {
				t.Errorf("ParseIPv4(%q): expected ErrFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseIPv4(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A.Example.COM", "a.example.com"},
		{"a.example.com.", "a.example.com"},
		{"bücher.example", "xn--bcher-kva.example"},
	}

	for _, tt := range tests {
		got, err := NormalizeName(tt.in)
		if err != nil {
			t.Errorf("NormalizeName(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := NormalizeName(" "); err == nil {
		t.Error("expected error for empty name")
	}
}
