package resources

import (
	"context"
	"errors"
	"testing"

	trelloerrors "github.com/diwise/trello-client/pkg/trello/errors"
	"github.com/diwise/trello-client/pkg/trello/test"
	"github.com/matryer/is"
)

func TestFindRequestsTheItemPath(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return []byte(`{"id":"abcdef123456789123456789","name":"Test Label","color":"yellow","idBoard":"B1"}`), nil
		},
	}

	_, labels := testKinds()
	label, err := Find(context.Background(), transport, labels, "abcdef123456789123456789", nil)
	is.NoErr(err)

	is.Equal(len(transport.GetCalls()), 1)
	is.Equal(transport.GetCalls()[0].Path, "/labels/abcdef123456789123456789")
	is.Equal(transport.GetCalls()[0].QueryOptions, map[string]string{})
	is.Equal(label.String("name"), "Test Label")
	is.True(!label.IsDirty())
}

func TestFindPassesQueryOptions(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return []byte(`{"id":"L1","name":"Test Label"}`), nil
		},
	}

	_, labels := testKinds()
	_, err := Find(context.Background(), transport, labels, "L1", map[string]string{"fields": "name"})
	is.NoErr(err)

	is.Equal(transport.GetCalls()[0].QueryOptions, map[string]string{"fields": "name"})
}

func TestFindOfMissingResourceIsNotFound(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return nil, trelloerrors.NewErrorFromResponse("GET", path, 404, []byte("The requested resource was not found."))
		},
	}

	_, labels := testKinds()
	_, err := Find(context.Background(), transport, labels, "nope", nil)

	var nf *trelloerrors.NotFoundError
	is.True(errors.As(err, &nf))
	is.Equal(nf.Kind, "label")
	is.Equal(nf.ID, "nope")
	is.True(errors.Is(err, trelloerrors.ErrTransport))
}

func TestFindWithEmptyIdentifierMakesNoCall(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{}
	_, labels := testKinds()

	_, err := Find(context.Background(), transport, labels, "", nil)
	is.True(errors.Is(err, trelloerrors.ErrNotFound))
	is.Equal(len(transport.GetCalls()), 0)
}

func TestFindKeepsOtherTransportErrors(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return nil, trelloerrors.NewErrorFromResponse("GET", path, 401, []byte("invalid token"))
		},
	}

	_, labels := testKinds()
	_, err := Find(context.Background(), transport, labels, "L1", nil)

	var terr *trelloerrors.TransportError
	is.True(errors.As(err, &terr))
	is.Equal(terr.StatusCode, 401)
	is.True(!errors.Is(err, trelloerrors.ErrNotFound))
}

func TestFindWithMalformedBodyIsABadResponse(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return []byte(`[1,2,3]`), nil
		},
	}

	_, labels := testKinds()
	_, err := Find(context.Background(), transport, labels, "L1", nil)

	is.True(errors.Is(err, trelloerrors.ErrBadResponse))
}

func TestFindAllAcceptsAnEmptyList(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return []byte(`[]`), nil
		},
	}

	_, labels := testKinds()
	found, err := FindAll(context.Background(), transport, labels, "/boards/B1/labels", nil)
	is.NoErr(err)
	is.Equal(len(found), 0)
}
