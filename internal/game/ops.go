package game

import "github.com/Greenheart/hathora/internal/shape"

// Operation binds one outgoing request kind to its payload shape and default
// factory. The console builds one form per operation.
type Operation struct {
	Name    string
	Method  string
	Shape   shape.Shape
	Factory func() any
}

// Operations returns the six request kinds in the order the console lists
// them.
func Operations() []Operation {
	return []Operation{
		{
			Name:   "createGame",
			Method: "createGame",
			Shape: shape.Record{Fields: []shape.Field{
				{Name: "questCount", Shape: shape.Primitive{Prim: shape.Int}},
				{Name: "anonymousVoting", Shape: shape.Primitive{Prim: shape.Bool}},
			}},
			Factory: func() any {
				return map[string]any{"questCount": 5, "anonymousVoting": false}
			},
		},
		{
			Name:   "joinGame",
			Method: "joinGame",
			Shape: shape.Record{Fields: []shape.Field{
				{Name: "name", Shape: shape.Primitive{Prim: shape.String}},
			}},
			Factory: func() any {
				return map[string]any{"name": ""}
			},
		},
		{
			Name:   "startGame",
			Method: "startGame",
			Shape: shape.Record{Fields: []shape.Field{
				{Name: "playerOrder", Shape: shape.Optional{
					Inner: shape.Array{
						Inner:   shape.Primitive{Prim: shape.String},
						Default: func() any { return "" },
					},
					Default: func() any { return []any{} },
				}},
			}},
			Factory: func() any {
				return map[string]any{"playerOrder": nil}
			},
		},
		{
			Name:   "proposeQuest",
			Method: "proposeQuest",
			Shape: shape.Record{Fields: []shape.Field{
				{Name: "questId", Shape: shape.Primitive{Prim: shape.Int}},
				{Name: "members", Shape: shape.Array{
					Inner:   shape.Primitive{Prim: shape.String},
					Default: func() any { return "" },
				}},
			}},
			Factory: func() any {
				return map[string]any{"questId": 0, "members": []any{}}
			},
		},
		{
			Name:   "voteForProposal",
			Method: "voteForProposal",
			Shape: shape.Record{Fields: []shape.Field{
				{Name: "questId", Shape: shape.Primitive{Prim: shape.Int}},
				{Name: "vote", Shape: shape.Enum{Table: VoteTable}},
			}},
			Factory: func() any {
				return map[string]any{"questId": 0, "vote": VoteReject}
			},
		},
		{
			Name:   "voteInQuest",
			Method: "voteInQuest",
			Shape: shape.Record{Fields: []shape.Field{
				{Name: "questId", Shape: shape.Primitive{Prim: shape.Int}},
				{Name: "vote", Shape: shape.Enum{Table: VoteTable}},
			}},
			Factory: func() any {
				return map[string]any{"questId": 0, "vote": VoteReject}
			},
		},
	}
}
