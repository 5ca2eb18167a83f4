package cache

import (
	"context"
	"errors"
	"io/fs"

	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/cfddns/common/ddns"
)

// Fetcher looks up the A record of a target at the provider.
type Fetcher interface {
	FetchARecord(ctx context.Context, zoneID string, name string) (ddns.Record, error)
}

type LoadReport struct {
	// Rediscovered is set when the stored cache was unusable and every target
	// was fetched again.
	Rediscovered bool
	Discovered   []string
	Failed       []error
	Dirty        bool
}

// Load reads the stored cache and fetches the targets it does not know.
// Entries for names that are no longer targets are kept.
func Load(ctx context.Context, store Store, fetcher Fetcher, targets []ddns.Target) (Cache, LoadReport) {
	var report LoadReport

	c, err := store.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Infof("no cache file, discovering %d records", len(targets))
		} else {
			log.Warnf("cache unusable, discovering %d records: %v", len(targets), err)
		}
		c = New()
		report.Rediscovered = true
	}

	for _, t := range targets {
		if e, ok := c.Lookup(t.Name); ok && e.RecordID != "" {
			continue
		}

		rec, err := fetcher.FetchARecord(ctx, t.ZoneID, t.Name)
		if err != nil {
			log.Errorf("[%s] fetch record failure: %v", t.Name, err)
			report.Failed = append(report.Failed, &ddns.RecordError{Name: t.Name, Op: "fetch", Err: err})
			continue
		}

		log.Debugf("[%s] discovered record %s, IP: %s", t.Name, rec.ID, rec.Content)
		c.Set(t.Name, Entry{IP: rec.Content, RecordID: rec.ID})
		report.Discovered = append(report.Discovered, t.Name)
	}

	configured := make(map[string]bool, len(targets))
	for _, t := range targets {
		configured[t.Name] = true
	}
	for _, name := range c.Names() {
		if !configured[name] {
			log.Debugf("[%s] not configured, cache entry kept", name)
		}
	}

	report.Dirty = report.Rediscovered || len(report.Discovered) > 0
	return c, report
}
