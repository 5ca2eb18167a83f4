package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/cfddns/config"
)

func New(c *config.Config) (*Server, error) {
	// init log level
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(l)
	fmt.Printf("Log level: %s  (Records: %d, Interval: %ds)\n", c.LogLevel, len(c.Records), c.Interval)

	r, err := buildReconciler(c)
	if err != nil {
		return nil, err
	}
	notifier, err := buildNotifier(c)
	if err != nil {
		return nil, err
	}

	s := &Server{
		interval:    c.Interval,
		dryRun:      c.DryRun,
		records:     len(c.Records),
		metricsFile: c.MetricsFile,
		cron:        cron.New(),
		runner:      r,
		notifier:    notifier,
		metrics:     newMetrics(),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.metrics.records.Set(float64(s.records))

	return s, nil
}

func (s *Server) Start() {
	// On init start, do once check
	defer s.task()

	// cron check
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", s.interval), s.task); err != nil {
		log.Panic(err)
	}

	s.cron.Start()
	log.Warnln(config.AppName, "Started")
}

func (s *Server) task() {
	if !s.cronRunning.CompareAndSwap(false, true) {
		log.Warnln("previous pass still running, skip")
		return
	}
	defer s.cronRunning.Store(false)

	if err := s.RunOnce(s.ctx); err != nil {
		log.Error(err)
	}
}

// RunOnce runs a single pass bounded by the update interval.
func (s *Server) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*time.Duration(s.interval))
	defer cancel()

	start := time.Now()
	res, err := s.runner.Run(ctx)
	s.metrics.observe(res, err, time.Since(start), s.dryRun)

	if res != nil {
		log.Infof("pass done, IP: %s, updated: %d, unchanged: %d, failed: %d",
			res.IP, len(res.Updated), len(res.Unchanged), len(res.Failed))
		s.pushMessage(res.IP, res.Updated, err)
	} else {
		s.pushMessage("", nil, err)
	}

	if s.metricsFile != "" {
		if werr := s.metrics.writeTo(s.metricsFile); werr != nil {
			log.Errorf("write metrics file failure: %v", werr)
		}
	}

	return err
}

// push message
func (s *Server) pushMessage(ip string, updated []string, err error) {
	if s.notifier == nil || s.dryRun {
		return
	}

	for _, name := range updated {
		if werr := s.notifier.Webhook(name, fmt.Sprintf("IP changed: %s", ip)); werr != nil {
			log.Error(werr)
		} else {
			log.Infof("[%s] Push message success", name)
		}
	}

	if err != nil {
		msg := strings.ReplaceAll(err.Error(), "\n", "\n- ")
		if werr := s.notifier.Webhook(config.AppName, "Update failure:\n- "+msg); werr != nil {
			log.Error(werr)
		}
	}
}

func (s *Server) Close() {
	log.Infoln(config.AppName, "Closing..")
	s.cancel()
	entry := s.cron.Entries()
	for i := range entry {
		s.cron.Remove(entry[i].ID)
	}
	<-s.cron.Stop().Done()
}
