package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func LoadConfiguration(ctx context.Context) Config {
	return Config{
		host:     env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:     env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password: env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:     env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:   env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "trello"),
		sslmode:  env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
	}
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database described by cfg and creates the
// objects table if it does not exist.
func NewPostgresStore(ctx context.Context, cfg Config) (Store, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS objects (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			body       JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		);`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create objects table: %w", err)
	}

	logging.GetFromContext(ctx).Info("connected to database", "host", cfg.host, "dbname", cfg.dbname)

	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) Get(ctx context.Context, collection, id string) (Object, error) {
	var body []byte

	err := s.pool.QueryRow(ctx, `SELECT body FROM objects WHERE collection=$1 AND id=$2`, collection, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, err
	}

	return unmarshalObject(body)
}

func (s *postgresStore) Put(ctx context.Context, collection, id string, obj Object) error {
	body, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO objects (collection, id, body) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body`,
		collection, id, body)

	return err
}

func (s *postgresStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM objects WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	return nil
}

func (s *postgresStore) Find(ctx context.Context, collection, key, value string) ([]Object, error) {
	rows, err := s.pool.Query(ctx, `SELECT body FROM objects WHERE collection=$1 AND body->>$2 = $3 ORDER BY id`, collection, key, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Object{}

	for rows.Next() {
		var body []byte
		err := rows.Scan(&body)
		if err != nil {
			return nil, err
		}

		obj, err := unmarshalObject(body)
		if err != nil {
			return nil, err
		}

		result = append(result, obj)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *postgresStore) Close() {
	s.pool.Close()
}

func unmarshalObject(body []byte) (Object, error) {
	obj := Object{}
	err := json.Unmarshal(body, &obj)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored object: %w", err)
	}
	return obj, nil
}
