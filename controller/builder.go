package controller

import (
	"time"

	"github.com/Septrum101/cfddns/app/cache"
	"github.com/Septrum101/cfddns/app/reconciler"
	"github.com/Septrum101/cfddns/app/resolver"
	"github.com/Septrum101/cfddns/common/ddns/cloudflare"
	"github.com/Septrum101/cfddns/common/notify"
	"github.com/Septrum101/cfddns/config"
)

// NewClient builds the Cloudflare client described by c.
func NewClient(c *config.Config) (*cloudflare.Cloudflare, error) {
	return cloudflare.New(c.DDNS.Token,
		cloudflare.WithBaseURL(c.DDNS.BaseURL),
		cloudflare.WithTimeout(time.Second*time.Duration(c.Timeout)),
	)
}

func buildReconciler(c *config.Config) (*reconciler.Reconciler, error) {
	cli, err := NewClient(c)
	if err != nil {
		return nil, err
	}

	res, err := resolver.New(c.Services(), time.Second*time.Duration(c.Timeout))
	if err != nil {
		return nil, err
	}

	return reconciler.New(res, cli, cache.NewFileStore(c.CacheFile), c.Targets(),
		reconciler.WithDryRun(c.DryRun),
	), nil
}

func buildNotifier(c *config.Config) (notify.Notify, error) {
	if c.Notify == nil || !c.Notify.Enable {
		return nil, nil
	}
	return notify.New(c.Notify.Provider, c.Notify.Config)
}
