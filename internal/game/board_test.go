package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Greenheart/hathora/internal/pluginreg"
	"github.com/Greenheart/hathora/internal/session"
)

func TestBoardRendersQuestMarkers(t *testing.T) {
	el := NewBoardElement()

	out := el.Render(pluginreg.RenderContext{
		Session: session.Context{State: map[string]any{
			"round": 2,
			"quests": []any{
				map[string]any{"size": 2, "status": 3},
				map[string]any{"size": 3, "status": 1},
			},
		}},
	})

	assert.Contains(t, out, "[2✓]")
	assert.Contains(t, out, "[3?]")
	assert.Contains(t, out, "round 2")
}

func TestBoardEmptyQuests(t *testing.T) {
	el := NewBoardElement()

	out := el.Render(pluginreg.RenderContext{
		Session: session.Context{State: map[string]any{"quests": []any{}}},
	})
	assert.Contains(t, out, "(none)")
}

func TestBoardMalformedStateEmitsError(t *testing.T) {
	el := NewBoardElement()

	var got string
	cancel := el.Subscribe(func(detail string) { got = detail })
	defer cancel()

	out := el.Render(pluginreg.RenderContext{
		Session: session.Context{State: "not a record"},
	})
	require.Equal(t, "(no board)", out)
	assert.True(t, strings.Contains(got, "state snapshot"), "error detail: %q", got)
}

func TestBoardOnSampleState(t *testing.T) {
	el := NewBoardElement()

	out := el.Render(pluginreg.RenderContext{
		Session: session.Context{State: SampleState()},
	})
	assert.Contains(t, out, "quests")
}
