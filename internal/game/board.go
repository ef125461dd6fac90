package game

import (
	"fmt"
	"strings"

	"github.com/Greenheart/hathora/internal/pluginreg"
	"github.com/Greenheart/hathora/internal/shape"
)

// questGlyphs maps quest status to a one-cell board marker.
var questGlyphs = map[int]string{
	0: "·", // Proposing
	1: "?", // Voting
	2: "▶", // InProgress
	3: "✓", // Passed
	4: "✗", // Failed
}

// NewBoardElement returns the quest-board renderer registered under
// BoardElementID. It reads the quest list straight from the session
// snapshot and reports malformed state through the element error feed.
func NewBoardElement() *pluginreg.FuncElement {
	el := &pluginreg.FuncElement{}
	el.RenderFunc = func(rc pluginreg.RenderContext) string {
		st, ok := rc.Session.State.(map[string]any)
		if !ok {
			el.EmitError("board: state snapshot is not a record")
			return "(no board)"
		}
		quests, ok := st["quests"].([]any)
		if !ok {
			el.EmitError("board: quests missing from snapshot")
			return "(no board)"
		}

		var b strings.Builder
		b.WriteString("quests ")
		for i, q := range quests {
			if i > 0 {
				b.WriteString(" ")
			}
			qm, ok := q.(map[string]any)
			if !ok {
				el.EmitError(fmt.Sprintf("board: quest %d is not a record", i))
				b.WriteString("!")
				continue
			}
			glyph, ok := questGlyphs[shape.AsInt(qm["status"])]
			if !ok {
				glyph = "·"
			}
			b.WriteString(fmt.Sprintf("[%d%s]", shape.AsInt(qm["size"]), glyph))
		}
		if len(quests) == 0 {
			b.WriteString("(none)")
		}
		if round, ok := st["round"]; ok {
			b.WriteString(fmt.Sprintf("  round %d", shape.AsInt(round)))
		}
		return b.String()
	}
	return el
}
