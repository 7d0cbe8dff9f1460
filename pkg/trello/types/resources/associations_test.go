package resources

import (
	"context"
	"errors"
	"testing"

	trelloerrors "github.com/diwise/trello-client/pkg/trello/errors"
	"github.com/diwise/trello-client/pkg/trello/test"
	"github.com/matryer/is"
)

func TestResolveLooksUpTheRelatedResourceOnce(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return []byte(`{"id":"abcdef123456789123456789","name":"Test Board"}`), nil
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())

	is.Equal(len(transport.GetCalls()), 0) // nothing is fetched eagerly

	board, err := label.Resolve(context.Background(), "board")
	is.NoErr(err)
	is.Equal(board.String("name"), "Test Board")

	again, err := label.Resolve(context.Background(), "board")
	is.NoErr(err)
	is.True(board == again)

	is.Equal(len(transport.GetCalls()), 1)
	is.Equal(transport.GetCalls()[0].Path, "/boards/abcdef123456789123456789")
	is.Equal(transport.GetCalls()[0].QueryOptions, map[string]string{})
}

func TestReloadForgetsResolvedAssociations(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			if path == "/labels/abcdef123456789123456789" {
				return []byte(`{"id":"abcdef123456789123456789","name":"Test Label","idBoard":"abcdef123456789123456789"}`), nil
			}
			return []byte(`{"id":"abcdef123456789123456789","name":"Test Board"}`), nil
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())

	first, err := label.Resolve(context.Background(), "board")
	is.NoErr(err)

	is.NoErr(label.Reload(context.Background()))

	second, err := label.Resolve(context.Background(), "board")
	is.NoErr(err)

	is.True(first != second)
	is.Equal(len(transport.GetCalls()), 3)
}

func TestResolveWithoutForeignKeyIsNotFound(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{}
	_, labels := testKinds()
	label := NewFromOptions(transport, labels, map[string]any{"name": "Test Label"})

	_, err := label.Resolve(context.Background(), "board")
	is.True(errors.Is(err, trelloerrors.ErrNotFound))
	is.Equal(len(transport.GetCalls()), 0)
}

func TestResolveFailureIsNotCached(t *testing.T) {
	is := is.New(t)

	calls := 0
	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			calls++
			if calls == 1 {
				return nil, trelloerrors.NewErrorFromResponse("GET", path, 404, nil)
			}
			return []byte(`{"id":"abcdef123456789123456789","name":"Test Board"}`), nil
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())

	_, err := label.Resolve(context.Background(), "board")
	is.True(errors.Is(err, trelloerrors.ErrNotFound))

	board, err := label.Resolve(context.Background(), "board")
	is.NoErr(err)
	is.Equal(board.ID(), "abcdef123456789123456789")
}

func TestResolveOfUnknownRelationFails(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(&test.TransportMock{}, labels, labelPayload())

	_, err := label.Resolve(context.Background(), "owner")
	is.True(err != nil)

	_, err = label.ResolveMany(context.Background(), "board", nil)
	is.True(err != nil) // board is not a collection relation
}

func TestResolveManyListsTheNestedCollection(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return []byte(`[{"id":"L1","name":"one","idBoard":"B1"},{"id":"L2","name":"two","idBoard":"B1"}]`), nil
		},
	}

	boards, _ := testKinds()
	board := New(transport, boards, map[string]any{"id": "B1", "name": "Test Board"})

	found, err := board.ResolveMany(context.Background(), "labels", map[string]string{"filter": "all"})
	is.NoErr(err)

	is.Equal(len(found), 2)
	is.Equal(found[1].ID(), "L2")
	is.Equal(found[0].String("board_id"), "B1")
	is.Equal(transport.GetCalls()[0].Path, "/boards/B1/labels")
	is.Equal(transport.GetCalls()[0].QueryOptions, map[string]string{"filter": "all"})
}
