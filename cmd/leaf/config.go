package main

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config tunes the pipeline, it is read from the environment.
type Config struct {
	Workers   int `env:"LEAF_WORKERS"    envDefault:"1"`
	QueueSize int `env:"LEAF_QUEUE_SIZE" envDefault:"5"`

	// Applied to documents that don't set their own
	MaxLength     int `env:"LEAF_MAX_LENGTH"     envDefault:"1000000"`
	StackCapacity int `env:"LEAF_STACK_CAPACITY" envDefault:"500"`

	// Primitives also writes every emitted shape, one per line
	Primitives bool `env:"LEAF_PRIMITIVES" envDefault:"false"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	return cfg, nil
}
