package reconciler

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/cfddns/app/cache"
	"github.com/Septrum101/cfddns/common/ddns"
)

// Updater points an existing A record at a new address.
type Updater interface {
	UpdateARecord(ctx context.Context, zoneID string, recordID string, name string, content string) error
}

type Report struct {
	Updated   []string
	Unchanged []string
	Failed    []error
	Dirty     bool
}

var errNoEntry = fmt.Errorf("%w: record was never fetched", ddns.ErrNotFound)

// Reconcile updates every target whose cached address differs from ip and
// returns the cache as confirmed by the provider. c is not modified.
func Reconcile(ctx context.Context, u Updater, targets []ddns.Target, c cache.Cache, ip string) (cache.Cache, Report) {
	var report Report
	next := c.Clone()

	for _, t := range targets {
		e, ok := c.Lookup(t.Name)
		if !ok || e.RecordID == "" {
			report.Failed = append(report.Failed, &ddns.RecordError{Name: t.Name, Op: "update", Err: errNoEntry})
			continue
		}

		if e.IP == ip {
			log.Debugf("[%s] IP %s have no change", t.Name, ip)
			report.Unchanged = append(report.Unchanged, t.Name)
			continue
		}

		log.Infof("[%s] IP changed: %s -> %s", t.Name, e.IP, ip)
		if err := u.UpdateARecord(ctx, t.ZoneID, e.RecordID, t.Name, ip); err != nil {
			log.Errorf("[%s] update record failure: %v", t.Name, err)
			report.Failed = append(report.Failed, &ddns.RecordError{Name: t.Name, Op: "update", Err: err})
			continue
		}

		next.Set(t.Name, cache.Entry{IP: ip, RecordID: e.RecordID})
		report.Updated = append(report.Updated, t.Name)
	}

	report.Dirty = len(report.Updated) > 0
	return next, report
}

// Err joins the per-record failures.
func (r Report) Err() error {
	return errors.Join(r.Failed...)
}
