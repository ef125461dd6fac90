package game

import (
	"fmt"

	"github.com/Greenheart/hathora/internal/shape"
	"github.com/Greenheart/hathora/internal/transport"
)

// SampleState is a mid-game snapshot used by the replay source and tests.
func SampleState() map[string]any {
	return map[string]any{
		"status": 1,
		"round":  2,
		"players": []any{
			map[string]any{"id": "u1", "name": "morgan", "isHost": true, "role": 2},
			map[string]any{"id": "u2", "name": "casey", "isHost": false, "role": 0},
			map[string]any{"id": "u3", "name": "riley", "isHost": false, "role": 1},
		},
		"quests": []any{
			map[string]any{
				"id": 0, "size": 2, "proposer": "u1",
				"members":       []any{"u1", "u2"},
				"proposalVotes": []any{1, 1, 0},
				"questVotes":    []any{1, 1},
				"status":        3,
			},
			map[string]any{
				"id": 1, "size": 3, "proposer": "u2",
				"members":       []any{},
				"proposalVotes": []any{},
				"questVotes":    []any{},
				"status":        0,
			},
		},
		"winner": nil,
		"board":  map[string]any{},
	}
}

// Users is the identity directory the mock backend answers lookups from.
func Users() map[string]struct{ Name, Type string } {
	return map[string]struct{ Name, Type string }{
		"u1": {Name: "morgan", Type: "human"},
		"u2": {Name: "casey", Type: "human"},
		"u3": {Name: "riley", Type: "bot"},
	}
}

// Reducer applies submitted requests against an in-memory game, tracking
// per-user votes so repeat votes are rejected the way the real backend does.
type Reducer struct {
	state         any
	proposalVotes map[string]map[int]bool // userID -> questId -> voted
	questVotes    map[string]map[int]bool
}

// NewReducer starts from the given snapshot.
func NewReducer(initial any) *Reducer {
	return &Reducer{
		state:         initial,
		proposalVotes: make(map[string]map[int]bool),
		questVotes:    make(map[string]map[int]bool),
	}
}

// State returns the current snapshot.
func (r *Reducer) State() any { return r.state }

// Apply handles one submitted request and returns the response plus the new
// snapshot (nil when the state did not change).
func (r *Reducer) Apply(userID, method string, payload any) (transport.Response, any) {
	body, _ := payload.(map[string]any)
	switch method {
	case "createGame":
		count := shape.AsInt(body["questCount"])
		if count <= 0 {
			count = 5
		}
		quests := make([]any, count)
		for i := range quests {
			q := DefaultQuest().(map[string]any)
			q["id"] = i
			quests[i] = q
		}
		r.state = map[string]any{
			"status": 0, "round": 0,
			"players": []any{}, "quests": quests,
			"winner": nil, "board": map[string]any{},
		}
		return transport.Success(), r.state

	case "joinGame":
		name, _ := body["name"].(string)
		if name == "" {
			return transport.Errorf("name required"), nil
		}
		st := r.snapshot()
		players, _ := st["players"].([]any)
		players = append(players, map[string]any{
			"id": userID, "name": name, "isHost": len(players) == 0, "role": nil,
		})
		st["players"] = players
		r.state = st
		return transport.Success(), r.state

	case "startGame":
		st := r.snapshot()
		players, _ := st["players"].([]any)
		if len(players) < 2 {
			return transport.Errorf("not enough players"), nil
		}
		for i, p := range players {
			pl, _ := p.(map[string]any)
			pl["role"] = i % RoleTable.Len()
		}
		st["status"] = 1
		r.state = st
		return transport.Success(), r.state

	case "proposeQuest":
		st := r.snapshot()
		q, err := r.quest(st, shape.AsInt(body["questId"]))
		if err != nil {
			return transport.Errorf(err.Error()), nil
		}
		members, _ := body["members"].([]any)
		q["members"] = members
		q["status"] = 1
		r.state = st
		return transport.Success(), r.state

	case "voteForProposal":
		return r.vote(r.proposalVotes, "proposalVotes", userID, body)

	case "voteInQuest":
		return r.vote(r.questVotes, "questVotes", userID, body)
	}
	return transport.Errorf(fmt.Sprintf("unknown method %q", method)), nil
}

func (r *Reducer) vote(seen map[string]map[int]bool, field, userID string, body map[string]any) (transport.Response, any) {
	questID := shape.AsInt(body["questId"])
	if seen[userID] == nil {
		seen[userID] = make(map[int]bool)
	}
	if seen[userID][questID] {
		return transport.Errorf("already voted"), nil
	}

	st := r.snapshot()
	q, err := r.quest(st, questID)
	if err != nil {
		return transport.Errorf(err.Error()), nil
	}
	votes, _ := q[field].([]any)
	q[field] = append(votes, shape.AsInt(body["vote"]))
	seen[userID][questID] = true
	r.state = st
	return transport.Success(), r.state
}

func (r *Reducer) quest(st map[string]any, id int) (map[string]any, error) {
	quests, _ := st["quests"].([]any)
	for _, q := range quests {
		qm, _ := q.(map[string]any)
		if shape.AsInt(qm["id"]) == id {
			return qm, nil
		}
	}
	return nil, fmt.Errorf("no quest %d", id)
}

// snapshot shallow-copies the top level so replaced slices do not alias the
// previously broadcast state.
func (r *Reducer) snapshot() map[string]any {
	st, _ := r.state.(map[string]any)
	out := make(map[string]any, len(st))
	for k, v := range st {
		out[k] = v
	}
	return out
}
