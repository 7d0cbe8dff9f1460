package resources

import (
	"context"
	"errors"
	"testing"

	trelloerrors "github.com/diwise/trello-client/pkg/trello/errors"
	"github.com/diwise/trello-client/pkg/trello/test"
	"github.com/diwise/trello-client/pkg/trello/types"
	"github.com/diwise/trello-client/pkg/trello/types/attributes"
	"github.com/matryer/is"
)

func TestHydrationFromRemotePayload(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(nil, labels, labelPayload())

	is.Equal(label.ID(), "abcdef123456789123456789")
	is.Equal(label.String("name"), "Test Label")
	is.Equal(label.String("color"), "yellow")
	is.Equal(label.String("board_id"), "abcdef123456789123456789")
	is.Equal(label.Get("unknownKey"), nil)
	is.True(!label.IsDirty())
}

func TestPayloadRoundTripsTheHydratedValues(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	payload := labelPayload()
	delete(payload, "unknownKey")

	label := New(nil, labels, labelPayload())

	is.Equal(label.Payload(), types.Payload(payload))
}

func TestHydratingWithAnotherIdentifierFails(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(nil, labels, labelPayload())

	err := label.HydrateFull(map[string]any{"id": "somethingelse"})
	is.True(errors.Is(err, trelloerrors.ErrBadResponse))
}

func TestOptionsNeverCarryAnIdentifier(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := NewFromOptions(nil, labels, map[string]any{"id": "x", "name": "Test Label", "idBoard": "ignored"})

	is.Equal(label.ID(), "")
	is.Equal(label.String("name"), "Test Label")
	is.Equal(label.Get("board_id"), nil) // remote keys are not options
}

func TestSettingAValueMarksItDirty(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(nil, labels, labelPayload())

	label.Set("name", "xxx")

	is.True(label.IsDirty())
	is.Equal(label.DirtyFields(), []string{"name"})
}

func TestSettingTheSameValueIsNotAChange(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(nil, labels, labelPayload())

	label.Set("name", "Test Label")

	is.True(!label.IsDirty())
}

func TestRestoringTheSyncedValueClearsTheChange(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(nil, labels, labelPayload())

	label.Set("color", "purple")
	label.Set("color", "yellow")

	is.True(!label.IsDirty())
}

func TestReadOnlyAndUnknownAttributesAreIgnored(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(nil, labels, labelPayload())

	label.Set("uses", 17)
	label.Set("notAnAttribute", "value")

	is.True(!label.IsDirty())
	is.Equal(label.Float("uses"), float64(3))
	is.Equal(label.Get("notAnAttribute"), nil)
}

func TestUpdateFieldsIgnoresUnknownKeys(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(nil, labels, labelPayload())

	label.UpdateFields(map[string]any{"unknown": "x", "name": "Test Label"})
	is.True(!label.IsDirty()) // nothing changed

	label.UpdateFields(map[string]any{"color": "purple", "other": 17})
	is.Equal(label.DirtyFields(), []string{"color"})
}

func TestUpdateFieldsAcceptsRemoteKeys(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := New(nil, labels, labelPayload())

	label.UpdateFields(map[string]any{"idBoard": "B2"})
	is.Equal(label.String("board_id"), "B2")

	label.UpdateFields(map[string]any{"idBoard": "B3", "board_id": "B4"})
	is.Equal(label.String("board_id"), "B4") // local names win
}

func TestValidity(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := NewFromOptions(nil, labels, map[string]any{"name": "Test Label"})

	is.True(!label.IsValid())
	is.Equal(len(label.Errors()), 1)

	label.Set("board_id", "B1")
	is.True(label.IsValid())
	is.Equal(label.Errors(), nil)

	label.Set("color", "magenta")
	is.True(label.IsValid()) // colors are reported but do not block
	is.Equal(len(label.Errors()), 1)
}

func TestSaveWithoutChangesMakesNoCalls(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{}
	_, labels := testKinds()
	label := New(transport, labels, labelPayload())

	saved, err := label.Save(context.Background())
	is.NoErr(err)
	is.Equal(saved, label)
	is.Equal(len(transport.PutCalls()), 0)
	is.Equal(len(transport.PostCalls()), 0)
}

func TestSaveSendsOnlyChangedAttributes(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		PutFunc: func(ctx context.Context, path string, payload types.Payload) ([]byte, error) {
			return []byte(`{"id":"abcdef123456789123456789","name":"Test Label","color":"purple","idBoard":"abcdef123456789123456789"}`), nil
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())
	label.Set("color", "purple")

	_, err := label.Save(context.Background())
	is.NoErr(err)

	is.Equal(len(transport.PutCalls()), 1)
	is.Equal(transport.PutCalls()[0].Path, "/labels/abcdef123456789123456789")
	is.Equal(transport.PutCalls()[0].Payload, types.Payload{"color": "purple"})
	is.True(!label.IsDirty())
	is.Equal(label.String("color"), "purple")
}

func TestSaveOfNewResourcePostsEveryAssignedAttribute(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		PostFunc: func(ctx context.Context, path string, payload types.Payload) ([]byte, error) {
			return []byte(`{"id":"L1","name":"Test Label","color":"yellow","idBoard":"B1","uses":0}`), nil
		},
	}

	_, labels := testKinds()
	label, err := Create(context.Background(), transport, labels, map[string]any{
		"name": "Test Label", "color": "yellow", "board_id": "B1",
	})
	is.NoErr(err)

	is.Equal(len(transport.PostCalls()), 1)
	is.Equal(transport.PostCalls()[0].Path, "/labels")
	is.Equal(transport.PostCalls()[0].Payload, types.Payload{"name": "Test Label", "color": "yellow", "idBoard": "B1"})
	is.Equal(label.ID(), "L1")
	is.True(!label.IsDirty())
}

func TestSaveOfInvalidResourceFailsWithoutCalls(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{}
	_, labels := testKinds()

	_, err := Create(context.Background(), transport, labels, map[string]any{"name": "Test Label"})

	var verr *trelloerrors.ValidationError
	is.True(errors.As(err, &verr))
	is.Equal(verr.Missing, []string{"board_id"})
	is.Equal(len(transport.PostCalls()), 0)
}

func TestCreateResponseWithoutIdentifierIsAPersistenceError(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		PostFunc: func(ctx context.Context, path string, payload types.Payload) ([]byte, error) {
			return []byte(`{"name":"Test Label"}`), nil
		},
	}

	_, labels := testKinds()
	_, err := Create(context.Background(), transport, labels, map[string]any{"name": "Test Label", "board_id": "B1"})

	is.True(errors.Is(err, trelloerrors.ErrPersistence))
	is.True(errors.Is(err, trelloerrors.ErrBadResponse))
}

func TestFailedUpdateIsWrappedInAPersistenceError(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		PutFunc: func(ctx context.Context, path string, payload types.Payload) ([]byte, error) {
			return nil, trelloerrors.NewErrorFromResponse("PUT", path, 500, []byte(`{"message":"boom"}`))
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())
	label.Set("name", "xxx")

	_, err := label.Save(context.Background())

	var perr *trelloerrors.PersistenceError
	is.True(errors.As(err, &perr))
	is.Equal(perr.Op, "update")
	is.True(errors.Is(err, trelloerrors.ErrTransport))
	is.True(label.IsDirty()) // changes survive a failed save
}

func TestDeleteIssuesOneCall(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		DeleteFunc: func(ctx context.Context, path string) error {
			return nil
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())

	is.NoErr(label.Delete(context.Background()))
	is.Equal(len(transport.DeleteCalls()), 1)
	is.Equal(transport.DeleteCalls()[0].Path, "/labels/abcdef123456789123456789")
}

func TestDeleteWithoutIdentifierFails(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{}
	_, labels := testKinds()
	label := NewFromOptions(transport, labels, map[string]any{"name": "x"})

	err := label.Delete(context.Background())
	is.True(errors.Is(err, trelloerrors.ErrValidation))
	is.Equal(len(transport.DeleteCalls()), 0)
}

func TestFailedDeleteIsWrappedInAPersistenceError(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		DeleteFunc: func(ctx context.Context, path string) error {
			return trelloerrors.NewErrorFromResponse("DELETE", path, 404, nil)
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())

	err := label.Delete(context.Background())
	is.True(errors.Is(err, trelloerrors.ErrPersistence))
	is.True(errors.Is(err, trelloerrors.ErrNotFound))
}

func TestReloadDiscardsLocalChanges(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return []byte(`{"id":"abcdef123456789123456789","name":"Remote Name","idBoard":"abcdef123456789123456789"}`), nil
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())
	label.Set("name", "xxx")

	is.NoErr(label.Reload(context.Background()))

	is.True(!label.IsDirty())
	is.Equal(label.String("name"), "Remote Name")
	is.Equal(label.Get("color"), nil) // values missing remotely are dropped
	is.Equal(transport.GetCalls()[0].Path, "/labels/abcdef123456789123456789")
}

func TestReloadWithoutIdentifierFails(t *testing.T) {
	is := is.New(t)

	_, labels := testKinds()
	label := NewFromOptions(&test.TransportMock{}, labels, map[string]any{})

	err := label.Reload(context.Background())
	is.True(errors.Is(err, trelloerrors.ErrNotFound))
}

func TestReloadWithAnotherIdentifierFails(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{
		GetFunc: func(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error) {
			return []byte(`{"id":"somethingelse","name":"Remote Name","idBoard":"abcdef123456789123456789"}`), nil
		},
	}

	_, labels := testKinds()
	label := New(transport, labels, labelPayload())
	label.Set("name", "xxx")

	err := label.Reload(context.Background())

	var terr *trelloerrors.TransportError
	is.True(errors.Is(err, trelloerrors.ErrBadResponse))
	is.True(errors.As(err, &terr))
	is.Equal(label.ID(), "abcdef123456789123456789")
	is.Equal(label.String("name"), "xxx") // local state is kept
}

func TestReassigningSyncedNumbersAndListsIsNotAChange(t *testing.T) {
	is := is.New(t)

	transport := &test.TransportMock{}

	cards := NewKind("card", attributes.MustRegistry(
		attributes.New("name", "name", attributes.Required()),
		attributes.New("position", "pos"),
		attributes.New("label_ids", "idLabels"),
	))

	card := New(transport, cards, map[string]any{
		"id":       "C1",
		"name":     "Card",
		"pos":      float64(16384),
		"idLabels": []any{"a"},
	})

	card.Set("position", 16384)
	card.Set("label_ids", []string{"a"})

	is.True(!card.IsDirty())

	_, err := card.Save(context.Background())
	is.NoErr(err)
	is.Equal(len(transport.PutCalls()), 0)
}

func testKinds() (*Kind, *Kind) {
	boards := NewKind("board", attributes.MustRegistry(
		attributes.New("name", "name", attributes.Required()),
		attributes.New("description", "desc"),
	))

	labels := NewKind("label", attributes.MustRegistry(
		attributes.New("name", "name", attributes.Required()),
		attributes.New("color", "color", attributes.OneOf("green", "yellow", "purple")),
		attributes.New("board_id", "idBoard", attributes.Required()),
		attributes.New("uses", "uses", attributes.ReadOnly()),
	))

	labels.BelongsTo("board", "board_id", boards)
	boards.HasMany("labels", labels)

	return boards, labels
}

func labelPayload() map[string]any {
	return map[string]any{
		"id":         "abcdef123456789123456789",
		"name":       "Test Label",
		"color":      "yellow",
		"idBoard":    "abcdef123456789123456789",
		"uses":       float64(3),
		"unknownKey": "42",
	}
}
