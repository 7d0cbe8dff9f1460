package models

import (
	"context"

	"github.com/diwise/trello-client/pkg/trello/types"
	"github.com/diwise/trello-client/pkg/trello/types/resources"
)

type List struct {
	*resources.Resource
}

func NewList(transport types.Transport, payload map[string]any) *List {
	return &List{resources.New(transport, Lists, payload)}
}

func FindList(ctx context.Context, transport types.Transport, id string) (*List, error) {
	r, err := resources.Find(ctx, transport, Lists, id, nil)
	if err != nil {
		return nil, err
	}
	return &List{r}, nil
}

func CreateList(ctx context.Context, transport types.Transport, options map[string]any) (*List, error) {
	r, err := resources.Create(ctx, transport, Lists, options)
	if err != nil {
		return nil, err
	}
	return &List{r}, nil
}

func (l *List) Name() string {
	return l.String("name")
}

func (l *List) SetName(name string) {
	l.Set("name", name)
}

func (l *List) Closed() bool {
	return l.Bool("closed")
}

func (l *List) SetClosed(closed bool) {
	l.Set("closed", closed)
}

func (l *List) BoardID() string {
	return l.String("board_id")
}

func (l *List) Position() float64 {
	return l.Float("position")
}

func (l *List) Board(ctx context.Context) (*Board, error) {
	r, err := l.Resolve(ctx, "board")
	if err != nil {
		return nil, err
	}
	return &Board{r}, nil
}

func (l *List) Cards(ctx context.Context, queryOptions map[string]string) ([]*Card, error) {
	found, err := l.ResolveMany(ctx, "cards", queryOptions)
	if err != nil {
		return nil, err
	}
	return wrap(found, func(r *resources.Resource) *Card { return &Card{r} }), nil
}
