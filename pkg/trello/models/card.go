package models

import (
	"context"

	"github.com/diwise/trello-client/pkg/trello/types"
	"github.com/diwise/trello-client/pkg/trello/types/resources"
)

type Card struct {
	*resources.Resource
}

func NewCard(transport types.Transport, payload map[string]any) *Card {
	return &Card{resources.New(transport, Cards, payload)}
}

func FindCard(ctx context.Context, transport types.Transport, id string) (*Card, error) {
	r, err := resources.Find(ctx, transport, Cards, id, nil)
	if err != nil {
		return nil, err
	}
	return &Card{r}, nil
}

func CreateCard(ctx context.Context, transport types.Transport, options map[string]any) (*Card, error) {
	r, err := resources.Create(ctx, transport, Cards, options)
	if err != nil {
		return nil, err
	}
	return &Card{r}, nil
}

func (c *Card) Name() string {
	return c.String("name")
}

func (c *Card) SetName(name string) {
	c.Set("name", name)
}

func (c *Card) Description() string {
	return c.String("description")
}

func (c *Card) SetDescription(description string) {
	c.Set("description", description)
}

func (c *Card) ListID() string {
	return c.String("list_id")
}

// MoveTo changes the list the card belongs to. The change is sent on the next
// save.
func (c *Card) MoveTo(listID string) {
	c.Set("list_id", listID)
}

func (c *Card) BoardID() string {
	return c.String("board_id")
}

func (c *Card) LabelIDs() []string {
	return c.Strings("label_ids")
}

// AddLabel appends a label identifier unless the card already carries it.
func (c *Card) AddLabel(labelID string) {
	ids := c.LabelIDs()
	for _, id := range ids {
		if id == labelID {
			return
		}
	}

	updated := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		updated = append(updated, id)
	}

	c.Set("label_ids", append(updated, labelID))
}

func (c *Card) MemberIDs() []string {
	return c.Strings("member_ids")
}

func (c *Card) DueComplete() bool {
	return c.Bool("due_complete")
}

func (c *Card) SetDueComplete(complete bool) {
	c.Set("due_complete", complete)
}

func (c *Card) Closed() bool {
	return c.Bool("closed")
}

func (c *Card) SetClosed(closed bool) {
	c.Set("closed", closed)
}

func (c *Card) ShortURL() string {
	return c.String("short_url")
}

func (c *Card) Board(ctx context.Context) (*Board, error) {
	r, err := c.Resolve(ctx, "board")
	if err != nil {
		return nil, err
	}
	return &Board{r}, nil
}

func (c *Card) List(ctx context.Context) (*List, error) {
	r, err := c.Resolve(ctx, "list")
	if err != nil {
		return nil, err
	}
	return &List{r}, nil
}
