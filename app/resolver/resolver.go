package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/panjf2000/ants/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/cfddns/common/ddns"
	"github.com/Septrum101/cfddns/helper"
)

const (
	DefaultService = "https://icanhazip.com"
	defaultTimeout = time.Second * 15

	// at most this many sources are asked per resolution
	useCount = 3
)

// Source reports the public address of this host as seen by one service.
type Source interface {
	Lookup(ctx context.Context) (string, error)
	String() string
}

type Resolver struct {
	sources []Source
	timeout time.Duration
}

// New builds a resolver from service URLs. http(s) URLs are plain text "what is
// my IP" services, dns://server[:port]/name asks server for the A record of name.
func New(services []string, timeout time.Duration) (*Resolver, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if len(services) == 0 {
		services = []string{DefaultService}
	}

	r := &Resolver{timeout: timeout}
	for _, s := range services {
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid resolver service %q: %w", s, err)
		}

		switch u.Scheme {
		case "http", "https":
			r.sources = append(r.sources, newWebSource(u.String(), timeout))
		case "dns":
			src, err := newDNSSource(u, timeout)
			if err != nil {
				return nil, err
			}
			r.sources = append(r.sources, src)
		default:
			return nil, fmt.Errorf("unsupported resolver service scheme %q in %q", u.Scheme, s)
		}
	}

	return r, nil
}

// FromSources builds a resolver over already constructed sources.
func FromSources(timeout time.Duration, sources ...Source) *Resolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{sources: sources, timeout: timeout}
}

// Resolve returns the public IPv4 address. With several sources configured an
// address is only accepted once two of them report it.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	switch len(r.sources) {
	case 0:
		return "", errors.New("no public address service configured")
	case 1:
		return r.lookup(ctx, r.sources[0])
	default:
		return r.agree(ctx)
	}
}

func (r *Resolver) lookup(ctx context.Context, s Source) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := s.Lookup(ctx)
	if err != nil {
		return "", fmt.Errorf("[%s] %w", s, err)
	}

	ip, err := helper.ParseIPv4(raw)
	if err != nil {
		return "", fmt.Errorf("[%s] %w", s, err)
	}

	log.Debugf("[%s] public address %s", s, ip)
	return ip, nil
}

func (r *Resolver) agree(ctx context.Context) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := len(r.sources)
	if n > useCount {
		n = useCount
	}

	pool, err := ants.NewPool(n)
	if err != nil {
		return "", err
	}
	defer pool.Release()

	type result struct {
		ip  string
		err error
	}
	// buffered so that late lookups never block after an early return
	results := make(chan result, n)

	for i := 0; i < n; i++ {
		s := r.sources[i]
		if err := pool.Submit(func() {
			ip, err := r.lookup(ctx, s)
			results <- result{ip: ip, err: err}
		}); err != nil {
			results <- result{err: fmt.Errorf("[%s] %w", s, err)}
		}
	}

	var (
		errs  []error
		votes = make(map[string]int)
	)
	for i := 0; i < n; i++ {
		res := <-results
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}

		votes[res.ip]++
		if votes[res.ip] >= 2 {
			return res.ip, nil
		}
	}

	if len(votes) > 1 {
		return "", fmt.Errorf("%w: services disagree on the public address %v", ddns.ErrFormat, votes)
	}
	return "", fmt.Errorf("not enough services responded: %w", errors.Join(errs...))
}
