package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

const (
	EngineMemory   = "memory"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

// Store is a flat key-value store holding JSON documents.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

type Options struct {
	SQLitePath  string
	PostgresURL string
}

func NewByEngine(ctx context.Context, engine string, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath)
	case EngineMemory:
		return NewMemoryStore(), nil
	case EnginePostgres:
		return NewPostgresRepo(ctx, opts.PostgresURL)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedEngine, engine)
	}
}
