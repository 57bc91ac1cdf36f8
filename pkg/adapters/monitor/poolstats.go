// Package monitor runs periodic background reports.
package monitor

import (
	"database/sql"
	"fmt"

	"github.com/golang/glog"
	"github.com/robfig/cron"
)

// StatsSource exposes connection pool counters. ok is false when no pool exists.
type StatsSource interface {
	Stats() (stats sql.DBStats, ok bool)
}

type PoolReporter struct {
	cron *cron.Cron
	src  StatsSource
}

// StartPoolReporter logs pool stats on schedule, a six-field cron spec
// with leading seconds.
func StartPoolReporter(schedule string, src StatsSource) (*PoolReporter, error) {
	p := &PoolReporter{cron: cron.New(), src: src}
	if err := p.cron.AddFunc(schedule, p.Report); err != nil {
		return nil, fmt.Errorf("pool stats schedule %q: %w", schedule, err)
	}
	p.cron.Start()
	glog.Infof("pool stats reporter started (%s)", schedule)
	return p, nil
}

// Report writes one log line for the current pool state.
func (p *PoolReporter) Report() {
	line, ok := Summary(p.src)
	if !ok {
		return
	}
	glog.Info(line)
}

func (p *PoolReporter) Stop() {
	p.cron.Stop()
}

func Summary(src StatsSource) (string, bool) {
	s, ok := src.Stats()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("db pool: open=%d in_use=%d idle=%d wait_count=%d wait=%s",
		s.OpenConnections, s.InUse, s.Idle, s.WaitCount, s.WaitDuration), true
}
