package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweep is a periodic job over appointments; it returns how many rows it
// touched.
type Sweep interface {
	Execute(ctx context.Context, now time.Time) (int, error)
}

type Schedule struct {
	Name string
	Spec string
	Job  Sweep
}

// Start registers every schedule on a new cron runner and starts it. The
// caller stops it with Stop, whose context is done when running jobs finish.
func Start(ctx context.Context, log *zap.Logger, schedules ...Schedule) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{log})))

	for _, s := range schedules {
		if _, err := c.AddFunc(s.Spec, run(ctx, log, s)); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", s.Name, s.Spec, err)
		}
		log.Info("job scheduled", zap.String("job", s.Name), zap.String("spec", s.Spec))
	}

	c.Start()
	return c, nil
}

func run(ctx context.Context, log *zap.Logger, s Schedule) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}

		started := time.Now()
		n, err := s.Job.Execute(ctx, started)
		if err != nil {
			log.Error("job failed", zap.String("job", s.Name), zap.Error(err))
			return
		}

		log.Info("job finished",
			zap.String("job", s.Name),
			zap.Int("processed", n),
			zap.Duration("took", time.Since(started)),
		)
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
