package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTablesExcludeReverseAliases(t *testing.T) {
	assert.Equal(t, 4, StatusTable.Len())
	assert.Equal(t, 4, RoleTable.Len())
	assert.Equal(t, 2, VoteTable.Len())

	label, ok := VoteTable.Label(1)
	require.True(t, ok)
	assert.Equal(t, "Approve", label)
}

func TestOperationsCoverAllRequestKinds(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, 6)

	names := make(map[string]bool)
	for _, op := range ops {
		names[op.Name] = true
		require.NotNil(t, op.Shape, op.Name)
		require.NotNil(t, op.Factory, op.Name)
		// Each factory must hand out a fresh value every call.
		a, b := op.Factory(), op.Factory()
		assert.Equal(t, a, b, op.Name)
		if am, ok := a.(map[string]any); ok {
			bm := b.(map[string]any)
			for k := range am {
				bm[k] = "mutated"
			}
			assert.Equal(t, op.Factory(), a, "%s factory shares state", op.Name)
		}
	}
	for _, want := range []string{"createGame", "joinGame", "startGame", "proposeQuest", "voteForProposal", "voteInQuest"} {
		assert.True(t, names[want], want)
	}
}

func TestReducerJoinAndStart(t *testing.T) {
	r := NewReducer(map[string]any{
		"status": 0, "round": 0,
		"players": []any{}, "quests": []any{DefaultQuest()},
		"winner": nil, "board": map[string]any{},
	})

	resp, st := r.Apply("u1", "joinGame", map[string]any{"name": "morgan"})
	require.True(t, resp.OK())
	players := st.(map[string]any)["players"].([]any)
	require.Len(t, players, 1)
	assert.Equal(t, true, players[0].(map[string]any)["isHost"])

	resp, _ = r.Apply("u2", "joinGame", map[string]any{"name": "casey"})
	require.True(t, resp.OK())

	resp, st = r.Apply("u1", "startGame", map[string]any{})
	require.True(t, resp.OK())
	assert.Equal(t, 1, st.(map[string]any)["status"])
}

func TestReducerRejectsRepeatVotes(t *testing.T) {
	r := NewReducer(SampleState())

	resp, _ := r.Apply("u1", "voteInQuest", map[string]any{"questId": 1, "vote": VoteApprove})
	require.True(t, resp.OK())

	resp, st := r.Apply("u1", "voteInQuest", map[string]any{"questId": 1, "vote": VoteApprove})
	assert.Equal(t, "error", resp.Type)
	assert.Equal(t, "already voted", resp.Error)
	assert.Nil(t, st)
}

func TestReducerUnknownQuest(t *testing.T) {
	r := NewReducer(SampleState())
	resp, _ := r.Apply("u1", "proposeQuest", map[string]any{"questId": 42, "members": []any{}})
	assert.Equal(t, "error", resp.Type)
}
