package config

import (
	"errors"
	"strings"
	"time"

	"github.com/adrianliechti/murmur/pkg/accelerator"
	"github.com/adrianliechti/murmur/pkg/cache"
)

type acceleratorConfig struct {
	Type string `yaml:"type"`
}

type cacheConfig struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`

	TTL time.Duration `yaml:"ttl"`
}

func (c *Config) registerAccelerator(f *configFile) error {
	switch strings.ToLower(f.Accelerator.Type) {
	case "", "host":
		a, err := accelerator.NewHost()

		if err != nil {
			return err
		}

		c.Accelerator = a

	case "none":
		c.Accelerator = accelerator.NewNone()

	default:
		return errors.New("invalid accelerator type: " + f.Accelerator.Type)
	}

	return nil
}

func (c *Config) registerCache(f *configFile) error {
	if f.Cache == nil {
		return nil
	}

	var options []cache.Option

	if f.Cache.InMemory {
		options = append(options, cache.WithInMemory())
	}

	if f.Cache.Dir != "" {
		options = append(options, cache.WithDir(f.Cache.Dir))
	}

	if f.Cache.TTL > 0 {
		options = append(options, cache.WithTTL(f.Cache.TTL))
	}

	db, err := cache.New(options...)

	if err != nil {
		return err
	}

	c.cache = db

	return nil
}
