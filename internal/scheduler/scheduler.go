package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"

	"StockAnalysis/internal/collector"
	"StockAnalysis/internal/recorder"
	"StockAnalysis/internal/report"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the report once or on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Runner    *report.Runner
	Recorder  recorder.Recorder
	Out       io.Writer
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. Overlapping ticks are skipped.
func NewScheduler(ctx context.Context, col *collector.Collector, runner *report.Runner, rec recorder.Recorder, out io.Writer) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.Default()))),
		),
		Collector: col,
		Runner:    runner,
		Recorder:  rec,
		Out:       out,
		Ctx:       ctx,
	}
}

// Register adds the report task under the given six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	log.Printf("[INFO] report scheduled: %s", spec)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running report to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow loads the dataset afresh, writes the report and records the run.
// A recording failure is logged, not returned.
func (s *Scheduler) RunNow() error {
	if err := s.Ctx.Err(); err != nil {
		return err
	}
	records, err := s.Collector.Collect()
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	sum, err := s.Runner.Run(s.Out, records)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := s.Recorder.RecordRun(&recorder.Run{Source: s.Collector.Source.Name(), Summary: sum}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	return nil
}

func (s *Scheduler) reportTask() {
	log.Println("[INFO] running scheduled report")
	if err := s.RunNow(); err != nil {
		log.Printf("[ERROR] scheduled report: %v", err)
	}
}
