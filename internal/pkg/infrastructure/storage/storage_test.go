package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	s := NewMemoryStore()
	defer s.Close()

	obj := Object{"id": "L1", "name": "Test Label", "idBoard": "B1"}
	is.NoErr(s.Put(ctx, "labels", "L1", obj))

	obj["name"] = "changed after put"

	stored, err := s.Get(ctx, "labels", "L1")
	is.NoErr(err)
	is.Equal(stored["name"], "Test Label") // store keeps its own copy
}

func TestMemoryStoreReportsMissingObjects(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	s := NewMemoryStore()

	_, err := s.Get(ctx, "labels", "nope")
	is.True(errors.Is(err, ErrNotFound))

	err = s.Delete(ctx, "labels", "nope")
	is.True(errors.Is(err, ErrNotFound))
}

func TestMemoryStoreFindsByKey(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	s := NewMemoryStore()
	is.NoErr(s.Put(ctx, "labels", "L2", Object{"id": "L2", "idBoard": "B1"}))
	is.NoErr(s.Put(ctx, "labels", "L1", Object{"id": "L1", "idBoard": "B1"}))
	is.NoErr(s.Put(ctx, "labels", "L3", Object{"id": "L3", "idBoard": "B2"}))

	found, err := s.Find(ctx, "labels", "idBoard", "B1")
	is.NoErr(err)

	is.Equal(len(found), 2)
	is.Equal(found[0]["id"], "L1")
	is.Equal(found[1]["id"], "L2")

	found, err = s.Find(ctx, "cards", "idBoard", "B1")
	is.NoErr(err)
	is.Equal(len(found), 0)
}

func TestMemoryStoreDelete(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	s := NewMemoryStore()
	is.NoErr(s.Put(ctx, "boards", "B1", Object{"id": "B1"}))
	is.NoErr(s.Delete(ctx, "boards", "B1"))

	_, err := s.Get(ctx, "boards", "B1")
	is.True(errors.Is(err, ErrNotFound))
}

func TestPostgresConnectionString(t *testing.T) {
	is := is.New(t)

	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "trello")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg := LoadConfiguration(context.Background())
	is.Equal(cfg.ConnStr(), "postgres://trello:secret@db:5432/trello?sslmode=disable")
}
