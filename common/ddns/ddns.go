package ddns

import (
	"context"
)

// Target binds a record name to the provider zone that holds it.
type Target struct {
	Name   string
	ZoneID string
}

// Record is an A record as reported by the provider.
type Record struct {
	ID      string
	Name    string
	Content string
}

type Client interface {
	FetchARecord(ctx context.Context, zoneID string, name string) (Record, error)
	UpdateARecord(ctx context.Context, zoneID string, recordID string, name string, content string) error
}
