package reconciler

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/cfddns/app/cache"
	"github.com/Septrum101/cfddns/common/ddns"
)

// IPResolver finds the public IPv4 address of this host.
type IPResolver interface {
	Resolve(ctx context.Context) (string, error)
}

type Reconciler struct {
	resolver IPResolver
	client   ddns.Client
	store    cache.Store
	targets  []ddns.Target
	dryRun   bool
}

type Option func(r *Reconciler)

// WithDryRun logs the updates a pass would make without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) {
		r.dryRun = dryRun
	}
}

func New(resolver IPResolver, client ddns.Client, store cache.Store, targets []ddns.Target, opts ...Option) *Reconciler {
	r := &Reconciler{
		resolver: resolver,
		client:   client,
		store:    store,
		targets:  targets,
	}
	for i := range opts {
		opts[i](r)
	}
	return r
}

// Result summarises one pass.
type Result struct {
	IP           string
	Rediscovered bool
	Discovered   []string
	Updated      []string
	Unchanged    []string
	Failed       []error
	Persisted    bool
}

// Err joins the per-record failures of the pass.
func (r *Result) Err() error {
	return errors.Join(r.Failed...)
}

// Run executes one pass. A resolver failure aborts the pass before anything
// is fetched or written. Per-record failures do not stop the other records,
// they are returned joined together with the partial Result.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	ip, err := r.resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve public IP: %w", err)
	}
	log.Infof("public IP: %s", ip)

	res := &Result{IP: ip}

	c, loaded := cache.Load(ctx, r.store, r.client, r.targets)
	res.Rediscovered = loaded.Rediscovered
	res.Discovered = loaded.Discovered
	res.Failed = append(res.Failed, loaded.Failed...)

	var updater Updater = r.client
	if r.dryRun {
		updater = dryRunUpdater{}
	}

	next, report := Reconcile(ctx, updater, r.targets, c, ip)
	res.Updated = report.Updated
	res.Unchanged = report.Unchanged
	res.Failed = append(res.Failed, skipFailed(report.Failed, loaded.Failed)...)

	if r.dryRun {
		return res, res.Err()
	}

	if loaded.Dirty || report.Dirty {
		if err := r.store.Write(next); err != nil {
			log.Errorf("persist cache failure: %v", err)
			return res, errors.Join(res.Err(), err)
		}
		res.Persisted = true
		log.Debugf("cache persisted with %d records", next.Len())
	}

	return res, res.Err()
}

// skipFailed drops the failures of records that already failed earlier in
// the pass.
func skipFailed(errs []error, earlier []error) []error {
	seen := make(map[string]bool, len(earlier))
	for _, err := range earlier {
		var re *ddns.RecordError
		if errors.As(err, &re) {
			seen[re.Name] = true
		}
	}

	var out []error
	for _, err := range errs {
		var re *ddns.RecordError
		if errors.As(err, &re) && seen[re.Name] {
			continue
		}
		out = append(out, err)
	}
	return out
}

type dryRunUpdater struct{}

func (dryRunUpdater) UpdateARecord(_ context.Context, zoneID string, recordID string, name string, content string) error {
	log.Infof("[%s] dry run, would update record %s in zone %s to %s", name, recordID, zoneID, content)
	return nil
}
