// Package preference persists the preferred language across restarts.
package preference

import (
	"context"

	"github.com/pkg/errors"
)

// DefaultKey is the preference name the language code is stored under.
const DefaultKey = "preferredLanguage"

// Backends accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store persists a single language code.
type Store interface {
	// Load returns the stored code. found is false when nothing has been saved.
	Load(ctx context.Context) (code string, found bool, err error)
	// Save replaces the stored code.
	Save(ctx context.Context, code string) error
	Close() error
}

// Options selects and configures a Store backend.
type Options struct {
	Backend       string
	Key           string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (store Store, err error) {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	switch opts.Backend {
	case BackendFile, "":
		store, err = NewFileStore(opts.Path, key)
	case BackendRedis:
		store, err = DialRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, key)
	case BackendSQLite:
		store, err = OpenSQLite(ctx, opts.Path, key)
	case BackendMemory:
		store = NewMemoryStore("")
	default:
		err = errors.Errorf("unknown preference backend %q", opts.Backend)
	}

	if err != nil {
		store = nil
		err = errors.Wrapf(err, "failed to open %s preference store", opts.Backend)
		return store, err
	}

	return store, err
}
