package resolver

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/Septrum101/cfddns/common/ddns"
)

// exchanger abstracts dns.Client.ExchangeContext for testability.
type exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// dnsSource asks a name server that answers with the address of the asking
// client, e.g. resolver1.opendns.com for myip.opendns.com.
type dnsSource struct {
	server string
	name   string
	client exchanger
}

func newDNSSource(u *url.URL, timeout time.Duration) (*dnsSource, error) {
	name := strings.Trim(u.Path, "/")
	if u.Hostname() == "" || name == "" {
		return nil, fmt.Errorf("dns resolver service %q must look like dns://server[:port]/name", u.String())
	}

	server := u.Host
	if u.Port() == "" {
		server = net.JoinHostPort(u.Hostname(), "53")
	}

	return &dnsSource{
		server: server,
		name:   dns.Fqdn(name),
		client: &dns.Client{Net: "udp4", Timeout: timeout},
	}, nil
}

func (d *dnsSource) Lookup(ctx context.Context) (string, error) {
	m := new(dns.Msg)
	m.SetQuestion(d.name, dns.TypeA)

	r, _, err := d.client.ExchangeContext(ctx, m, d.server)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ddns.ErrNetwork, err)
	}
	if r.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("%w: %s answered %s", ddns.ErrNetwork, d.server, dns.RcodeToString[r.Rcode])
	}

	for _, ans := range r.Answer {
		if a, ok := ans.(*dns.A); ok {
			return a.A.String(), nil
		}
	}
	return "", fmt.Errorf("%w: no A answer for %s", ddns.ErrFormat, d.name)
}

func (d *dnsSource) String() string {
	return "dns://" + d.server + "/" + strings.TrimSuffix(d.name, ".")
}
