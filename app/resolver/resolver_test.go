package resolver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/Septrum101/cfddns/common/ddns"
)

func newIPServer(t *testing.T, body string) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

type staticSource struct {
	ip    string
	err   error
	calls atomic.Int32
}

func (s *staticSource) Lookup(context.Context) (string, error) {
	s.calls.Add(1)
	return s.ip, s.err
}

func (s *staticSource) String() string {
	return "static " + s.ip
}

func TestResolveWeb(t *testing.T) {
	r, err := New([]string{newIPServer(t, "203.0.113.7\n")}, time.Second*2)
	if err != nil {
		t.Fatal(err)
	}

	ip, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ip != "203.0.113.7" {
		t.Errorf("expected 203.0.113.7, got %q", ip)
	}
}

func TestResolveFormatError(t *testing.T) {
	for _, body := range []string{"<html>blocked</html>", "2001:db8::1", ""} {
		r, err := New([]string{newIPServer(t, body)}, time.Second*2)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.Resolve(context.Background()); !errors.Is(err, ddns.ErrFormat) {
			t.Errorf("body %q: expected ErrFormat, got %v", body, err)
		}
	}
}

func TestResolveNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r, err := New([]string{srv.URL}, time.Second*2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(context.Background()); !errors.Is(err, ddns.ErrNetwork) {
		t.Errorf("expected ErrNetwork for 503, got %v", err)
	}

	srv.Close()
	if _, err := r.Resolve(context.Background()); !errors.Is(err, ddns.ErrNetwork) {
		t.Errorf("expected ErrNetwork for closed server, got %v", err)
	}
}

func TestResolveTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second * 2):
		}
	}))
	defer srv.Close()

	r, err := New([]string{srv.URL}, time.Millisecond*100)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(context.Background()); !errors.Is(err, ddns.ErrNetwork) {
		t.Errorf("expected ErrNetwork on timeout, got %v", err)
	}
}

func TestNewRejectsUnknownScheme(t *testing.T) {
	if _, err := New([]string{"ftp://example.com"}, 0); err == nil {
		t.Error("expected error for ftp scheme")
	}
	if _, err := New([]string{"dns://resolver1.opendns.com"}, 0); err == nil {
		t.Error("expected error for dns service without name")
	}
}

func TestAgreement(t *testing.T) {
	a := &staticSource{ip: "198.51.100.1"}
	b := &staticSource{ip: "198.51.100.1"}
	c := &staticSource{ip: "198.51.100.2"}

	ip, err := FromSources(time.Second, a, c, b).Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ip != "198.51.100.1" {
		t.Errorf("expected 198.51.100.1, got %q", ip)
	}
}

func TestAgreementOneFailure(t *testing.T) {
	a := &staticSource{ip: "198.51.100.1"}
	b := &staticSource{err: ddns.ErrNetwork}
	c := &staticSource{ip: "198.51.100.1"}

	ip, err := FromSources(time.Second, a, b, c).Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ip != "198.51.100.1" {
		t.Errorf("expected 198.51.100.1, got %q", ip)
	}
}

func TestDisagreement(t *testing.T) {
	a := &staticSource{ip: "198.51.100.1"}
	b := &staticSource{ip: "198.51.100.2"}

	if _, err := FromSources(time.Second, a, b).Resolve(context.Background()); !errors.Is(err, ddns.ErrFormat) {
		t.Errorf("expected ErrFormat on disagreement, got %v", err)
	}
}

func TestTooFewAnswers(t *testing.T) {
	a := &staticSource{ip: "198.51.100.1"}
	b := &staticSource{err: ddns.ErrNetwork}
	c := &staticSource{err: ddns.ErrNetwork}

	if _, err := FromSources(time.Second, a, b, c).Resolve(context.Background()); !errors.Is(err, ddns.ErrNetwork) {
		t.Errorf("expected joined ErrNetwork, got %v", err)
	}
}

func TestAtMostThreeSourcesAsked(t *testing.T) {
	var srcs []Source
	var statics []*staticSource
	for i := 0; i < 5; i++ {
		s := &staticSource{err: ddns.ErrNetwork}
		statics = append(statics, s)
		srcs = append(srcs, s)
	}

	if _, err := FromSources(time.Second, srcs...).Resolve(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	for i, s := range statics {
		want := int32(0)
		if i < useCount {
			want = 1
		}
		if got := s.calls.Load(); got != want {
			t.Errorf("source %d: expected %d calls, got %d", i, want, got)
		}
	}
}

type fakeExchanger struct {
	reply *dns.Msg
	err   error
	asked string
}

func (f *fakeExchanger) ExchangeContext(_ context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
	f.asked = addr + " " + m.Question[0].Name
	if f.err != nil {
		return nil, 0, f.err
	}
	reply := new(dns.Msg)
	reply.SetReply(m)
	reply.Answer = f.reply.Answer
	reply.Rcode = f.reply.Rcode
	return reply, time.Millisecond, nil
}

func newTestDNSSource(t *testing.T, ex *fakeExchanger) *dnsSource {
	u, _ := url.Parse("dns://resolver1.opendns.com/myip.opendns.com")
	src, err := newDNSSource(u, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	src.client = ex
	return src
}

func TestDNSSource(t *testing.T) {
	rr, err := dns.NewRR("myip.opendns.com. 0 IN A 203.0.113.9")
	if err != nil {
		t.Fatal(err)
	}
	reply := new(dns.Msg)
	reply.Answer = []dns.RR{rr}

	ex := &fakeExchanger{reply: reply}
	src := newTestDNSSource(t, ex)

	ip, err := FromSources(time.Second, src).Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ip != "203.0.113.9" {
		t.Errorf("expected 203.0.113.9, got %q", ip)
	}
	if ex.asked != "resolver1.opendns.com:53 myip.opendns.com." {
		t.Errorf("unexpected query %q", ex.asked)
	}
}

func TestDNSSourceErrors(t *testing.T) {
	refused := new(dns.Msg)
	refused.Rcode = dns.RcodeRefused

	src := newTestDNSSource(t, &fakeExchanger{reply: refused})
	if _, err := src.Lookup(context.Background()); !errors.Is(err, ddns.ErrNetwork) {
		t.Errorf("expected ErrNetwork for REFUSED, got %v", err)
	}

	src = newTestDNSSource(t, &fakeExchanger{reply: new(dns.Msg)})
	if _, err := src.Lookup(context.Background()); !errors.Is(err, ddns.ErrFormat) {
		t.Errorf("expected ErrFormat for empty answer, got %v", err)
	}

	src = newTestDNSSource(t, &fakeExchanger{err: errors.New("i/o timeout")})
	if _, err := src.Lookup(context.Background()); !errors.Is(err, ddns.ErrNetwork) {
		t.Errorf("expected ErrNetwork for exchange failure, got %v", err)
	}
}
