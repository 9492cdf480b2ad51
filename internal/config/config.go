package config

import (
	"fmt"
	"os"
	"strconv"

	"StockAnalysis/internal/model"
	"StockAnalysis/internal/report"

	"gopkg.in/yaml.v3"
)

const (
	SourceFile  = "file"
	SourceYahoo = "yahoo"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Type   string `yaml:"type"`
		Path   string `yaml:"path"`
		Symbol string `yaml:"symbol"`
		Range  string `yaml:"range"`
	} `yaml:"data_source"`
	Report struct {
		TargetDate   string   `yaml:"target_date"`
		TopN         int      `yaml:"top_n"`
		OutlierSigma float64  `yaml:"outlier_sigma"`
		PreviewRows  int      `yaml:"preview_rows"`
		WeekdayRows  int      `yaml:"weekday_rows"`
		Correlation  []string `yaml:"correlation"`
	} `yaml:"report"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Default returns the configuration used when neither file nor environment sets a value.
func Default() *Config {
	cfg := &Config{}
	cfg.DataSource.Type = SourceFile
	cfg.DataSource.Path = "GOOGL_data.csv"
	cfg.DataSource.Symbol = "GOOGL"
	cfg.DataSource.Range = "10y"

	opts := report.DefaultOptions()
	cfg.Report.TopN = opts.TopN
	cfg.Report.OutlierSigma = opts.OutlierSigma
	cfg.Report.PreviewRows = opts.PreviewRows
	cfg.Report.WeekdayRows = opts.WeekdayRows
	cfg.Report.Correlation = []string{opts.CorrelationA.String(), opts.CorrelationB.String()}
	return cfg
}

// Load starts from Default, overlays the YAML file, then applies environment
// variable overrides. Values set explicitly, zero included, are kept.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource.Type = v
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.DataSource.Path = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("TARGET_DATE"); v != "" {
		cfg.Report.TargetDate = v
	}
	if v := os.Getenv("TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse TOP_N: %w", err)
		}
		cfg.Report.TopN = n
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.Type {
	case SourceFile:
		if c.DataSource.Path == "" {
			return fmt.Errorf("data_source.path is required for file sources")
		}
	case SourceYahoo:
		if c.DataSource.Symbol == "" {
			return fmt.Errorf("data_source.symbol is required for yahoo sources")
		}
	default:
		return fmt.Errorf("data_source.type must be %q or %q, got %q", SourceFile, SourceYahoo, c.DataSource.Type)
	}
	if c.Report.TargetDate != "" {
		if _, err := model.ParseDate(c.Report.TargetDate); err != nil {
			return fmt.Errorf("report.target_date: %w", err)
		}
	}
	if c.Report.TopN < 0 {
		return fmt.Errorf("report.top_n must not be negative")
	}
	if c.Report.OutlierSigma < 0 {
		return fmt.Errorf("report.outlier_sigma must not be negative")
	}
	if c.Report.PreviewRows < 0 || c.Report.WeekdayRows < 0 {
		return fmt.Errorf("report.preview_rows and report.weekday_rows must not be negative")
	}
	if len(c.Report.Correlation) != 2 {
		return fmt.Errorf("report.correlation needs exactly two fields")
	}
	for _, f := range c.Report.Correlation {
		if _, err := model.ParseField(f); err != nil {
			return fmt.Errorf("report.correlation: %w", err)
		}
	}
	return nil
}

// ReportOptions converts the report section into runner options.
// Call Validate first.
func (c *Config) ReportOptions() report.Options {
	opts := report.Options{
		TopN:         c.Report.TopN,
		OutlierSigma: c.Report.OutlierSigma,
		PreviewRows:  c.Report.PreviewRows,
		WeekdayRows:  c.Report.WeekdayRows,
	}
	if c.Report.TargetDate != "" {
		opts.TargetDate, _ = model.ParseDate(c.Report.TargetDate)
	}
	if len(c.Report.Correlation) == 2 {
		opts.CorrelationA, _ = model.ParseField(c.Report.Correlation[0])
		opts.CorrelationB, _ = model.ParseField(c.Report.Correlation[1])
	}
	return opts
}
