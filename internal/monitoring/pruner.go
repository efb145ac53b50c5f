package monitoring

import (
	"context"
	"time"

	"github.com/fintrack/fintrack-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Pruner removes old audit events on a cron schedule.
type Pruner struct {
	eventSvc  services.EventServiceProvider
	schedule  cron.Schedule
	retention time.Duration
	nextRun   time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewPruner creates a pruner from a standard cron expression and a
// retention window.
func NewPruner(eventSvc services.EventServiceProvider, spec string, retention time.Duration) (*Pruner, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Pruner{
		eventSvc:  eventSvc,
		schedule:  schedule,
		retention: retention,
		nextRun:   schedule.Next(time.Now()),
		done:      make(chan bool),
	}, nil
}

// Run starts the pruner's ticking loop.
func (p *Pruner) Run() {
	log.Info().Time("next_run", p.nextRun).Msg("Starting audit event pruner")
	p.ticker = time.NewTicker(1 * time.Minute)
	defer p.ticker.Stop()

	for {
		select {
		case <-p.done:
			log.Info().Msg("Stopping audit event pruner")
			return
		case <-p.ticker.C:
			p.pruneIfDue()
		}
	}
}

// Stop halts the pruner.
func (p *Pruner) Stop() {
	p.done <- true
}

func (p *Pruner) pruneIfDue() {
	now := time.Now()
	if now.Before(p.nextRun) {
		return
	}
	p.nextRun = p.schedule.Next(now)

	cutoff := now.Add(-p.retention)
	removed, err := p.eventSvc.PruneOlderThan(context.Background(), cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Pruner: failed to remove old events")
		return
	}
	log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Pruned audit events")
}
