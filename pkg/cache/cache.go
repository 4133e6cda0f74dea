package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrNotFound = errors.New("cache: not found")

// Cache is a key value store for rendered audio backed by BadgerDB.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

type Config struct {
	dir      string
	inMemory bool

	ttl time.Duration
}

type Option func(*Config)

func WithDir(dir string) Option {
	return func(c *Config) {
		c.dir = dir
	}
}

func WithInMemory() Option {
	return func(c *Config) {
		c.inMemory = true
	}
}

// WithTTL expires entries after d. Zero keeps them forever.
func WithTTL(d time.Duration) Option {
	return func(c *Config) {
		c.ttl = d
	}
}

func New(options ...Option) (*Cache, error) {
	cfg := &Config{}

	for _, option := range options {
		option(cfg)
	}

	if !cfg.inMemory && cfg.dir == "" {
		return nil, errors.New("cache: dir is required for on-disk mode")
	}

	opts := badger.DefaultOptions(cfg.dir).
		WithLogger(logger{})

	if cfg.inMemory {
		opts = badger.DefaultOptions("").
			WithInMemory(true).
			WithLogger(logger{})
	}

	db, err := badger.Open(opts)

	if err != nil {
		return nil, err
	}

	return &Cache{
		db:  db,
		ttl: cfg.ttl,
	}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get decodes the entry stored under key into v.
func (c *Cache) Get(key []byte, v any) error {
	var data []byte

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)

		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return err
	}

	return msgpack.Unmarshal(data, v)
}

func (c *Cache) Set(key []byte, v any) error {
	data, err := msgpack.Marshal(v)

	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, data)

		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}

		return txn.SetEntry(entry)
	})
}

type logger struct{}

func (logger) Errorf(f string, v ...any) {
	slog.Error(fmt.Sprintf("badger: "+f, v...))
}

func (logger) Warningf(f string, v ...any) {
	slog.Warn(fmt.Sprintf("badger: "+f, v...))
}

func (logger) Infof(string, ...any) {}

func (logger) Debugf(string, ...any) {}
