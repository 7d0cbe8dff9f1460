package models

import (
	"context"

	"github.com/diwise/trello-client/pkg/trello/types"
	"github.com/diwise/trello-client/pkg/trello/types/resources"
)

type Board struct {
	*resources.Resource
}

func NewBoard(transport types.Transport, payload map[string]any) *Board {
	return &Board{resources.New(transport, Boards, payload)}
}

func FindBoard(ctx context.Context, transport types.Transport, id string) (*Board, error) {
	r, err := resources.Find(ctx, transport, Boards, id, nil)
	if err != nil {
		return nil, err
	}
	return &Board{r}, nil
}

func CreateBoard(ctx context.Context, transport types.Transport, options map[string]any) (*Board, error) {
	r, err := resources.Create(ctx, transport, Boards, options)
	if err != nil {
		return nil, err
	}
	return &Board{r}, nil
}

func (b *Board) Name() string {
	return b.String("name")
}

func (b *Board) SetName(name string) {
	b.Set("name", name)
}

func (b *Board) Description() string {
	return b.String("description")
}

func (b *Board) SetDescription(description string) {
	b.Set("description", description)
}

func (b *Board) Closed() bool {
	return b.Bool("closed")
}

func (b *Board) SetClosed(closed bool) {
	b.Set("closed", closed)
}

func (b *Board) URL() string {
	return b.String("url")
}

func (b *Board) Labels(ctx context.Context, queryOptions map[string]string) ([]*Label, error) {
	found, err := b.ResolveMany(ctx, "labels", queryOptions)
	if err != nil {
		return nil, err
	}
	return wrap(found, func(r *resources.Resource) *Label { return &Label{r} }), nil
}

func (b *Board) Lists(ctx context.Context, queryOptions map[string]string) ([]*List, error) {
	found, err := b.ResolveMany(ctx, "lists", queryOptions)
	if err != nil {
		return nil, err
	}
	return wrap(found, func(r *resources.Resource) *List { return &List{r} }), nil
}

func (b *Board) Cards(ctx context.Context, queryOptions map[string]string) ([]*Card, error) {
	found, err := b.ResolveMany(ctx, "cards", queryOptions)
	if err != nil {
		return nil, err
	}
	return wrap(found, func(r *resources.Resource) *Card { return &Card{r} }), nil
}

func wrap[T any](found []*resources.Resource, fn func(*resources.Resource) T) []T {
	result := make([]T, 0, len(found))
	for _, r := range found {
		result = append(result, fn(r))
	}
	return result
}
