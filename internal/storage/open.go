// Package storage selects the review store named by the configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"movie_review/internal/domain"
	"movie_review/internal/shared"
	"movie_review/internal/storage/memory"
	mongorepo "movie_review/internal/storage/mongo"
	mysqlrepo "movie_review/internal/storage/mysql"
)

// Open connects the configured backend, prepares its schema or indexes and
// returns it with a close function.
func Open(ctx context.Context, cfg shared.Config) (domain.ReviewRepository, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("using in-memory store; reviews are lost on restart")
		return memory.New(), func() {}, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("mysql ping: %w", err)
		}
		repo := mysqlrepo.New(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("mysql schema: %w", err)
		}
		log.Info().Msg("mysql connection ok")
		return repo, func() { _ = db.Close() }, nil

	case "mongo":
		repo, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("db", cfg.MongoDatabase).Str("collection", cfg.MongoCollection).Msg("mongo connection ok")
		return repo, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = repo.Close(ctx)
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
