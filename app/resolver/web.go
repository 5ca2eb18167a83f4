package resolver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Septrum101/cfddns/common/ddns"
)

type webSource struct {
	url    string
	client *resty.Client
}

func newWebSource(u string, timeout time.Duration) *webSource {
	// dial over IPv4 only, a dual-stack host would otherwise be answered with its IPv6 address
	dialer := &net.Dialer{Timeout: timeout}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = func(ctx context.Context, _ string, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, "tcp4", addr)
	}

	return &webSource{
		url: u,
		client: resty.New().
			SetTransport(transport).
			SetTimeout(timeout).
			SetHeader("Cache-Control", "no-cache"),
	}
}

func (w *webSource) Lookup(ctx context.Context) (string, error) {
	resp, err := w.client.R().SetContext(ctx).Get(w.url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ddns.ErrNetwork, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: status code %d", ddns.ErrNetwork, resp.StatusCode())
	}

	line, _, _ := strings.Cut(resp.String(), "\n")
	return strings.TrimSpace(line), nil
}

func (w *webSource) String() string {
	return w.url
}
