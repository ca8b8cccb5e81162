// Package scheduler drives the round countdown once per second
package scheduler

import (
	"context"
	"time"

	"chit-auction/internal/models"
	"chit-auction/utils"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=scheduler.go -destination=mock_scheduler.go -package=scheduler

// Ticker advances the countdown of one engine
type Ticker interface {
	Tick(ctx context.Context) (models.AuctionState, error)
}

// DefaultSpec fires every second, the countdown resolution
const DefaultSpec = "@every 1s"

// Scheduler calls Tick on a cron schedule. Overlapping ticks are skipped.
type Scheduler struct {
	cron    *cron.Cron
	ticker  Ticker
	spec    string
	timeout time.Duration
}

// New creates a stopped scheduler for t
func New(t Ticker) *Scheduler {
	logger := cron.PrintfLogger(log.StandardLogger())
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		ticker:  t,
		spec:    DefaultSpec,
		timeout: 900 * time.Millisecond,
	}
}

// Run ticks until ctx is done, then waits for an in-flight tick
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return err
	}
	s.cron.Start()
	utils.Info("Scheduler: started", map[string]any{"spec": s.spec})

	<-ctx.Done()
	<-s.cron.Stop().Done()
	utils.Info("Scheduler: stopped", nil)
	return nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	st, err := s.ticker.Tick(ctx)
	if err != nil {
		utils.Error("Scheduler: tick failed", map[string]any{"error": err.Error()})
		return
	}
	if st.Running {
		utils.Debug("Scheduler: tick", map[string]any{"seconds_left": st.SecondsLeft, "current_loss": st.CurrentLoss})
	}
}
