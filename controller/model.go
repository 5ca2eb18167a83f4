package controller

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/Septrum101/cfddns/app/reconciler"
	"github.com/Septrum101/cfddns/common/notify"
)

type runner interface {
	Run(ctx context.Context) (*reconciler.Result, error)
}

type Server struct {
	interval    int
	dryRun      bool
	records     int
	metricsFile string
	ctx         context.Context
	cancel      context.CancelFunc
	cron        *cron.Cron
	cronRunning atomic.Bool
	runner      runner
	notifier    notify.Notify
	metrics     *metrics
}
