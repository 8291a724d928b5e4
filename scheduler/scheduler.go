// Package scheduler runs the periodic all-accounts processing pass.
package scheduler

import (
	"context"
	"os"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	"github.com/robfig/cron/v3"

	"meetbot/engine"
)

const defaultSchedule = "*/15 * * * *"

var log = log15.New("module", "scheduler")

// Start schedules the processing pass and returns the running cron so main
// can stop it on shutdown. The schedule comes from SYNC_SCHEDULE, default
// every 15 minutes.
func Start(processor *engine.Processor) (*cron.Cron, error) {
	schedule := os.Getenv("SYNC_SCHEDULE")
	if schedule == "" {
		schedule = defaultSchedule
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := processor.ProcessAllActiveAccounts(ctx); err != nil {
			log.Error("scheduled processing pass failed", "err", err)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("scheduler started", "schedule", schedule)
	return c, nil
}
