package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockAnalysis/internal/collector"
	"StockAnalysis/internal/config"
	"StockAnalysis/internal/recorder"
	"StockAnalysis/internal/report"
	"StockAnalysis/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockAnalysis starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if len(os.Args) > 1 {
		cfg.DataSource.Type = config.SourceFile
		cfg.DataSource.Path = os.Args[1]
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init source
	var src collector.Source
	switch cfg.DataSource.Type {
	case config.SourceYahoo:
		src = collector.NewYahooSource(cfg.DataSource.Symbol, cfg.DataSource.Range, cfg.Proxy)
	default:
		src = collector.NewFileSource(cfg.DataSource.Path)
	}
	log.Printf("[INFO] data source: %s", src.Name())
	col := collector.NewCollector(src)

	runner := report.NewRunner(cfg.ReportOptions())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
			if n, err := sr.RunCount(); err != nil {
				log.Printf("[WARN] read run history: %v", err)
			} else {
				log.Printf("[INFO] run history holds %d previous runs", n)
			}
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, runner, rec, os.Stdout)

	// One-shot run unless a schedule is configured
	if cfg.Schedule.Cron == "" {
		if err := sched.RunNow(); err != nil {
			rec.Close()
			log.Fatalf("[FATAL] %v", err)
		}
		return
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Println("[INFO] StockAnalysis is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StockAnalysis stopped")
}
