package models

import (
	"github.com/diwise/trello-client/pkg/trello/types/attributes"
	"github.com/diwise/trello-client/pkg/trello/types/resources"
)

const (
	BoardTypeName string = "board"
	CardTypeName  string = "card"
	LabelTypeName string = "label"
	ListTypeName  string = "list"
)

// LabelColors are the colours the remote service accepts for labels.
var LabelColors = []string{"green", "yellow", "orange", "red", "purple", "blue", "sky", "lime", "pink", "black"}

var Boards = resources.NewKind(BoardTypeName, attributes.MustRegistry(
	attributes.New("name", "name", attributes.Required()),
	attributes.New("description", "desc"),
	attributes.New("closed", "closed"),
	attributes.New("organization_id", "idOrganization"),
	attributes.New("url", "url", attributes.ReadOnly()),
))

var Labels = resources.NewKind(LabelTypeName, attributes.MustRegistry(
	attributes.New("name", "name", attributes.Required()),
	attributes.New("color", "color", attributes.OneOf(LabelColors...)),
	attributes.New("board_id", "idBoard", attributes.Required()),
	attributes.New("uses", "uses", attributes.ReadOnly()),
))

var Lists = resources.NewKind(ListTypeName, attributes.MustRegistry(
	attributes.New("name", "name", attributes.Required()),
	attributes.New("closed", "closed"),
	attributes.New("board_id", "idBoard", attributes.Required()),
	attributes.New("position", "pos"),
))

var Cards = resources.NewKind(CardTypeName, attributes.MustRegistry(
	attributes.New("name", "name", attributes.Required()),
	attributes.New("description", "desc"),
	attributes.New("due", "due"),
	attributes.New("due_complete", "dueComplete"),
	attributes.New("closed", "closed"),
	attributes.New("list_id", "idList", attributes.Required()),
	attributes.New("board_id", "idBoard", attributes.ReadOnly()),
	attributes.New("member_ids", "idMembers"),
	attributes.New("label_ids", "idLabels"),
	attributes.New("position", "pos"),
	attributes.New("short_url", "shortUrl", attributes.ReadOnly()),
	attributes.New("url", "url", attributes.ReadOnly()),
	attributes.New("last_activity_date", "dateLastActivity", attributes.ReadOnly()),
))

func init() {
	Boards.HasMany("labels", Labels).HasMany("lists", Lists).HasMany("cards", Cards)
	Labels.BelongsTo("board", "board_id", Boards)
	Lists.BelongsTo("board", "board_id", Boards).HasMany("cards", Cards)
	Cards.BelongsTo("board", "board_id", Boards).BelongsTo("list", "list_id", Lists)
}

// All returns every resource kind known to this package.
func All() []*resources.Kind {
	return []*resources.Kind{Boards, Cards, Labels, Lists}
}

// KindNamed looks a kind up by its singular name, e.g. "label".
func KindNamed(name string) (*resources.Kind, bool) {
	for _, k := range All() {
		if k.Name() == name {
			return k, true
		}
	}
	return nil, false
}

// KindForCollection looks a kind up by its collection name, e.g. "labels".
func KindForCollection(collection string) (*resources.Kind, bool) {
	for _, k := range All() {
		if k.Collection() == collection {
			return k, true
		}
	}
	return nil, false
}
