package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	dbpool *pgxpool.Pool
}

var (
	pgOnce sync.Once
)

func New(dbAddr string) (*Storage, error) {
	const op = "storage.postgres.New"

	var (
		dbpool *pgxpool.Pool
		err    error
	)

	//single instance of the db
	pgOnce.Do(func() {
		dbpool, err = pgxpool.New(context.Background(), dbAddr)
	})

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{dbpool: dbpool}, nil
}

func (s *Storage) ClosePool() {
	s.dbpool.Close()
}
