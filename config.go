package recordkit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/recordkit/recordkit/executor"
	"github.com/recordkit/recordkit/logger"
	"github.com/recordkit/recordkit/schema"
)

// Config configures a database handle. The zero value works: naming
// falls back to the pluralizing strategy and logging to the default
// zerolog logger.
type Config struct {
	// NamingStrategy derives the table and column names left blank at
	// registration. Names a schema set explicitly stay untouched.
	NamingStrategy schema.Namer
	// Logger
	Logger logger.Interface
	// Executor runs statements. When nil, Driver and DSN are used to
	// open the bundled database/sql executor.
	Executor executor.Executor
	Driver   string
	DSN      string
	// NotifyBuffer is the per-collection change channel capacity.
	NotifyBuffer int
	// CascadeWorkers bounds the concurrent dependent-type fan-out of
	// the orphan cascade.
	CascadeWorkers int
	// Recover is called when a collection listener fails. The failure
	// never aborts the mutation that triggered it.
	Recover RecoverFunc
}

type fileConfig struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	LogLevel        string `yaml:"log_level"`
	SlowThresholdMS int    `yaml:"slow_threshold_ms"`
	NotifyBuffer    int    `yaml:"notify_buffer"`
	CascadeWorkers  int    `yaml:"cascade_workers"`
	TablePrefix     string `yaml:"table_prefix"`
	SingularTable   bool   `yaml:"singular_table"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	level := logger.Warn
	switch fc.LogLevel {
	case "silent":
		level = logger.Silent
	case "error":
		level = logger.Error
	case "warn", "":
		level = logger.Warn
	case "info":
		level = logger.Info
	default:
		return nil, fmt.Errorf("parse config: unknown log_level %q", fc.LogLevel)
	}

	return &Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   fc.TablePrefix,
			SingularTable: fc.SingularTable,
		},
		Logger: logger.NewZerologLoggerWithConfig(logger.Config{
			LogLevel:      level,
			SlowThreshold: time.Duration(fc.SlowThresholdMS) * time.Millisecond,
		}),
		Driver:         fc.Driver,
		DSN:            fc.DSN,
		NotifyBuffer:   fc.NotifyBuffer,
		CascadeWorkers: fc.CascadeWorkers,
	}, nil
}
