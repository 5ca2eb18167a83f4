package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cloudflare/cloudflare-go"
	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/cfddns/common/ddns"
)

const (
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"
	defaultTimeout = time.Second * 15
)

// Cloudflare Implementation
type Cloudflare struct {
	baseURL string
	timeout time.Duration
	client  *cloudflare.API
}

type Option func(cf *Cloudflare)

func WithBaseURL(u string) Option {
	return func(cf *Cloudflare) {
		if u != "" {
			cf.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithTimeout(t time.Duration) Option {
	return func(cf *Cloudflare) {
		if t > 0 {
			cf.timeout = t
		}
	}
}

func New(token string, opts ...Option) (*Cloudflare, error) {
	if token == "" {
		return nil, errors.New("cloudflare api token is empty")
	}

	cf := &Cloudflare{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}
	for i := range opts {
		opts[i](cf)
	}

	// a failed call is retried by the next pass, not inside this one
	api, err := cloudflare.NewWithAPIToken(token,
		cloudflare.BaseURL(cf.baseURL),
		cloudflare.HTTPClient(&http.Client{Timeout: cf.timeout}),
		cloudflare.UsingRetryPolicy(0, 0, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("create cloudflare api client: %w", err)
	}
	cf.client = api

	return cf, nil
}

// FetchARecord returns the A record called name in the zone. When the zone has
// no A record of that name the first A record is returned instead.
func (cf *Cloudflare) FetchARecord(ctx context.Context, zoneID string, name string) (ddns.Record, error) {
	records, _, err := cf.client.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.ListDNSRecordsParams{
		Type: "A",
	})
	if err != nil {
		return ddns.Record{}, fmt.Errorf("list records of zone %s: %w", zoneID, classify(err))
	}

	var first *cloudflare.DNSRecord
	for i := range records {
		r := &records[i]
		if r.Type != "A" {
			continue
		}
		if strings.EqualFold(r.Name, name) {
			return toRecord(r), nil
		}
		if first == nil {
			first = r
		}
	}

	if first == nil {
		return ddns.Record{}, fmt.Errorf("zone %s: %w", zoneID, ddns.ErrNotFound)
	}
	log.Warnf("[%s] no A record with this name in zone %s, using %s (%s)", name, zoneID, first.Name, first.ID)
	return toRecord(first), nil
}

// UpdateARecord sets the content of an existing A record. The SDK sends a
// PATCH, so TTL and proxy settings are left as they are.
func (cf *Cloudflare) UpdateARecord(ctx context.Context, zoneID string, recordID string, name string, content string) error {
	_, err := cf.client.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.UpdateDNSRecordParams{
		ID:      recordID,
		Type:    "A",
		Name:    name,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("update record %s in zone %s: %w", recordID, zoneID, classify(err))
	}

	log.Infof("[%s] update record success, IP: %s", name, content)
	return nil
}

// Verify checks the API token against the token verification endpoint.
func (cf *Cloudflare) Verify(ctx context.Context) error {
	result, err := cf.client.VerifyAPIToken(ctx)
	if err != nil {
		return fmt.Errorf("verify api token: %w", classify(err))
	}
	if result.Status != "active" {
		return fmt.Errorf("%w: api token status is %q, expected \"active\"", ddns.ErrAuth, result.Status)
	}

	log.Debugf("api token %s verified", result.ID)
	return nil
}

// classify maps an SDK error onto the error kinds of package ddns.
func classify(err error) error {
	var (
		authn    *cloudflare.AuthenticationError
		authz    *cloudflare.AuthorizationError
		notFound *cloudflare.NotFoundError
		netErr   net.Error
	)

	switch {
	case errors.As(err, &authn), errors.As(err, &authz):
		return fmt.Errorf("%w: %v", ddns.ErrAuth, err)
	case errors.As(err, &notFound):
		return fmt.Errorf("%w: %v", ddns.ErrNotFound, err)
	case errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ddns.ErrNetwork, err)
	default:
		// request, service and rate limit errors, undecodable responses
		return fmt.Errorf("%w: %v", ddns.ErrProvider, err)
	}
}

func toRecord(r *cloudflare.DNSRecord) ddns.Record {
	return ddns.Record{
		ID:      r.ID,
		Name:    r.Name,
		Content: r.Content,
	}
}
