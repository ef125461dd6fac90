// Package game defines the quest game's concrete schema: enum symbol tables,
// the state snapshot shape, and the payload shape plus default factory for
// each outgoing operation. This is the only package that knows the
// application's field lists; the engine packages stay generic.
package game

import "github.com/Greenheart/hathora/internal/shape"

// Enum backing values mirror the backend's generated tables, which include
// reverse string aliases; the symbol-table constructor filters those out.
var (
	StatusTable = shape.NewSymbolTable("GameStatus", []shape.Symbol{
		{Label: "NotStarted", Value: 0},
		{Label: "InProgress", Value: 1},
		{Label: "LoyalWon", Value: 2},
		{Label: "MinionsWon", Value: 3},
		{Label: "0", Value: "NotStarted"},
		{Label: "1", Value: "InProgress"},
		{Label: "2", Value: "LoyalWon"},
		{Label: "3", Value: "MinionsWon"},
	})

	RoleTable = shape.NewSymbolTable("Role", []shape.Symbol{
		{Label: "LoyalServant", Value: 0},
		{Label: "Minion", Value: 1},
		{Label: "Merlin", Value: 2},
		{Label: "Assassin", Value: 3},
		{Label: "0", Value: "LoyalServant"},
		{Label: "1", Value: "Minion"},
		{Label: "2", Value: "Merlin"},
		{Label: "3", Value: "Assassin"},
	})

	VoteTable = shape.NewSymbolTable("Vote", []shape.Symbol{
		{Label: "Reject", Value: 0},
		{Label: "Approve", Value: 1},
		{Label: "0", Value: "Reject"},
		{Label: "1", Value: "Approve"},
	})

	QuestStatusTable = shape.NewSymbolTable("QuestStatus", []shape.Symbol{
		{Label: "Proposing", Value: 0},
		{Label: "Voting", Value: 1},
		{Label: "InProgress", Value: 2},
		{Label: "Passed", Value: 3},
		{Label: "Failed", Value: 4},
	})
)

// Vote values used by payload factories and tests.
const (
	VoteReject  = 0
	VoteApprove = 1
)

// BoardElementID addresses the externally registered quest-board renderer.
const BoardElementID = "quest-board"

// PlayerShape describes one seated player.
func PlayerShape() shape.Shape {
	return shape.Record{
		Name: "player",
		Fields: []shape.Field{
			{Name: "id", Shape: shape.Reference{}},
			{Name: "name", Shape: shape.Primitive{Prim: shape.String}},
			{Name: "isHost", Shape: shape.Primitive{Prim: shape.Bool}},
			{Name: "role", Shape: shape.Optional{
				Inner:   shape.Enum{Table: RoleTable},
				Default: func() any { return 0 },
			}},
		},
	}
}

// QuestShape describes one quest round.
func QuestShape() shape.Shape {
	return shape.Record{
		Name: "quest",
		Fields: []shape.Field{
			{Name: "id", Shape: shape.Primitive{Prim: shape.Int}},
			{Name: "size", Shape: shape.Primitive{Prim: shape.Int}},
			{Name: "proposer", Shape: shape.Reference{}},
			{Name: "members", Shape: shape.Array{
				Inner:   shape.Reference{},
				Default: func() any { return "" },
			}},
			{Name: "proposalVotes", Shape: shape.Array{
				Inner:   shape.Enum{Table: VoteTable},
				Default: func() any { return VoteReject },
			}},
			{Name: "questVotes", Shape: shape.Array{
				Inner:   shape.Enum{Table: VoteTable},
				Default: func() any { return VoteReject },
			}},
			{Name: "status", Shape: shape.Enum{Table: QuestStatusTable}},
		},
	}
}

// StateShape describes the full pushed snapshot.
func StateShape() shape.Shape {
	return shape.Record{
		Fields: []shape.Field{
			{Name: "status", Shape: shape.Enum{Table: StatusTable}},
			{Name: "round", Shape: shape.Primitive{Prim: shape.Int}},
			{Name: "players", Shape: shape.Array{
				Inner:   PlayerShape(),
				Default: func() any { return DefaultPlayer() },
			}},
			{Name: "quests", Shape: shape.Array{
				Inner:   QuestShape(),
				Default: func() any { return DefaultQuest() },
			}},
			{Name: "winner", Shape: shape.Optional{
				Inner:   shape.Enum{Table: RoleTable},
				Default: func() any { return 0 },
			}},
			{Name: "board", Shape: shape.Plugin{ElementID: BoardElementID}},
		},
	}
}

// DefaultPlayer returns a fresh player value for array appends.
func DefaultPlayer() any {
	return map[string]any{
		"id":     "",
		"name":   "",
		"isHost": false,
		"role":   nil,
	}
}

// DefaultQuest returns a fresh quest value for array appends.
func DefaultQuest() any {
	return map[string]any{
		"id":            0,
		"size":          2,
		"proposer":      "",
		"members":       []any{},
		"proposalVotes": []any{},
		"questVotes":    []any{},
		"status":        0,
	}
}
