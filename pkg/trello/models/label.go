package models

import (
	"context"

	"github.com/diwise/trello-client/pkg/trello/types"
	"github.com/diwise/trello-client/pkg/trello/types/resources"
)

// Label is a coloured tag defined on a board.
type Label struct {
	*resources.Resource
}

// NewLabel wraps a label hydrated from a remote shaped payload.
func NewLabel(transport types.Transport, payload map[string]any) *Label {
	return &Label{resources.New(transport, Labels, payload)}
}

func FindLabel(ctx context.Context, transport types.Transport, id string) (*Label, error) {
	r, err := resources.Find(ctx, transport, Labels, id, nil)
	if err != nil {
		return nil, err
	}
	return &Label{r}, nil
}

// CreateLabel creates a label from options keyed by local names, i.e. name,
// color and board_id.
func CreateLabel(ctx context.Context, transport types.Transport, options map[string]any) (*Label, error) {
	r, err := resources.Create(ctx, transport, Labels, options)
	if err != nil {
		return nil, err
	}
	return &Label{r}, nil
}

func (l *Label) Name() string {
	return l.String("name")
}

func (l *Label) SetName(name string) {
	l.Set("name", name)
}

func (l *Label) Color() string {
	return l.String("color")
}

func (l *Label) SetColor(color string) {
	l.Set("color", color)
}

func (l *Label) BoardID() string {
	return l.String("board_id")
}

func (l *Label) SetBoardID(boardID string) {
	l.Set("board_id", boardID)
}

func (l *Label) Uses() int {
	return int(l.Float("uses"))
}

func (l *Label) Board(ctx context.Context) (*Board, error) {
	r, err := l.Resolve(ctx, "board")
	if err != nil {
		return nil, err
	}
	return &Board{r}, nil
}
