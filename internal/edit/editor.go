package edit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Greenheart/hathora/internal/shape"
)

type rowKind int

const (
	rowSection rowKind = iota // non-focusable structural label
	rowText
	rowBool
	rowEnum
	rowOptional
	rowArrayHead
	rowArrayItem
)

// row is one rendered line of the editor. Focusable rows carry the shape and
// path they edit; section rows only label structure.
type row struct {
	kind   rowKind
	path   shape.Path
	sh     shape.Shape
	label  string
	indent int
	input  textinput.Model // rowText only

	// rowArrayItem bookkeeping
	index  int
	length int
}

func (r row) focusable() bool { return r.kind != rowSection }

// Styles holds the editor's lipgloss styles. The UI shell overrides these
// from its theme; tests run on the defaults.
type Styles struct {
	Label   lipgloss.Style
	Value   lipgloss.Style
	Focused lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns unthemed editor styles.
func DefaultStyles() Styles {
	return Styles{
		Label:   lipgloss.NewStyle().Bold(true),
		Value:   lipgloss.NewStyle(),
		Focused: lipgloss.NewStyle().Bold(true).Underline(true),
		Muted:   lipgloss.NewStyle().Faint(true),
	}
}

// Editor renders an interactive control list for a value of a given shape.
// It owns the staged value; every user edit replaces it wholesale and
// reports the new snapshot through onChange synchronously.
type Editor struct {
	root     shape.Shape
	value    any
	onChange func(any)
	styles   Styles

	rows  []row
	focus int
}

// New builds an editor over value. onChange may be nil when the caller only
// reads Value() at submit time.
func New(root shape.Shape, value any, onChange func(any)) Editor {
	e := Editor{
		root:     root,
		value:    value,
		onChange: onChange,
		styles:   DefaultStyles(),
		focus:    -1,
	}
	e.rebuild()
	e.focusFirst()
	return e
}

// Value returns the current staged snapshot.
func (e Editor) Value() any { return e.value }

// SetValue replaces the staged value and rebuilds the control list, used by
// the form orchestrator's post-submit reset.
func (e *Editor) SetValue(v any) {
	e.value = v
	e.rebuild()
	e.clampFocus()
}

// SetStyles applies themed styles.
func (e *Editor) SetStyles(s Styles) { e.styles = s }

// Update handles one input event.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}

	switch key.String() {
	case "down", "tab":
		e.moveFocus(1)
		return e, nil
	case "up", "shift+tab":
		e.moveFocus(-1)
		return e, nil
	}

	if e.focus < 0 || e.focus >= len(e.rows) {
		return e, nil
	}

	switch r := &e.rows[e.focus]; r.kind {
	case rowText:
		var cmd tea.Cmd
		r.input, cmd = r.input.Update(msg)
		e.commit(r.path, parsePrimitive(r.sh.(shape.Primitive).Prim, r.input.Value()))
		return e, cmd
	case rowBool:
		if key.String() == "enter" || key.String() == " " {
			cur, _ := shape.Get(e.value, r.path).(bool)
			e.commit(r.path, !cur)
		}
	case rowEnum:
		e.cycleEnum(r, key.String())
	case rowOptional:
		if key.String() == "enter" || key.String() == " " {
			e.togglePresence(r)
		}
	case rowArrayHead:
		if key.String() == "a" || key.String() == "enter" {
			arr := r.sh.(shape.Array)
			items, _ := shape.Get(e.value, r.path).([]any)
			e.commit(r.path, Append(items, arr.Default()))
			e.rebuild()
			e.clampFocus()
		}
	case rowArrayItem:
		e.handleItemKey(r, key.String())
	}
	return e, nil
}

func (e *Editor) cycleEnum(r *row, key string) {
	table := r.sh.(shape.Enum).Table
	if table.Len() == 0 {
		return
	}
	idx := table.Index(shape.AsInt(shape.Get(e.value, r.path)))
	switch key {
	case "left", "h":
		idx--
	case "right", "l", "enter", " ":
		idx++
	default:
		return
	}
	// Closed choice list wraps at either end.
	idx = ((idx % table.Len()) + table.Len()) % table.Len()
	e.commit(r.path, table.ValueAt(idx))
}

func (e *Editor) togglePresence(r *row) {
	opt := r.sh.(shape.Optional)
	if shape.Get(e.value, r.path) == nil {
		e.commit(r.path, opt.Default())
	} else {
		// Present -> absent discards the inner value unconditionally.
		e.commit(r.path, nil)
	}
	e.rebuild()
	e.clampFocus()
}

func (e *Editor) handleItemKey(r *row, key string) {
	items, _ := shape.Get(e.value, r.path[:len(r.path)-1]).([]any)
	arrayPath := r.path[:len(r.path)-1]
	switch key {
	case "d", "backspace":
		e.commit(arrayPath, Delete(items, r.index))
	case "shift+up", "K":
		e.commit(arrayPath, SwapAdjacent(items, r.index, r.index-1))
	case "shift+down", "J":
		e.commit(arrayPath, SwapAdjacent(items, r.index, r.index+1))
	default:
		return
	}
	e.rebuild()
	e.clampFocus()
}

// commit replaces the staged snapshot and notifies the owner. Every call
// delivers one complete, consistent value.
func (e *Editor) commit(p shape.Path, v any) {
	e.value = shape.Set(e.value, p, v)
	if e.onChange != nil {
		e.onChange(e.value)
	}
}

// View renders the control list.
func (e Editor) View() string {
	var sb strings.Builder
	for i, r := range e.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.renderRow(i, r))
	}
	return sb.String()
}

func (e Editor) renderRow(i int, r row) string {
	focused := i == e.focus
	pad := strings.Repeat("  ", r.indent)
	label := e.styles.Label.Render(r.label)
	if focused {
		label = e.styles.Focused.Render(r.label)
	}

	switch r.kind {
	case rowSection:
		return pad + label
	case rowText:
		return pad + label + " " + r.input.View()
	case rowBool:
		cur, _ := shape.Get(e.value, r.path).(bool)
		box := "[ ]"
		if cur {
			box = "[x]"
		}
		return pad + label + " " + e.styles.Value.Render(box)
	case rowEnum:
		return pad + label + " " + e.renderEnum(r, focused)
	case rowOptional:
		if shape.Get(e.value, r.path) == nil {
			return pad + label + " " + e.styles.Muted.Render("[ ] none")
		}
		return pad + label + " " + e.styles.Value.Render("[x] present")
	case rowArrayHead:
		items, _ := shape.Get(e.value, r.path).([]any)
		head := fmt.Sprintf("(%d items)", len(items))
		hint := ""
		if focused {
			hint = "  " + e.styles.Muted.Render("[a] append")
		}
		return pad + label + " " + e.styles.Value.Render(head) + hint
	case rowArrayItem:
		marker := fmt.Sprintf("• %s %d", r.label, r.index)
		hint := ""
		if focused {
			hint = "  " + e.styles.Muted.Render(itemHint(r.index, r.length))
		}
		return pad + e.styles.Value.Render(marker) + hint
	}
	return ""
}

func (e Editor) renderEnum(r row, focused bool) string {
	table := r.sh.(shape.Enum).Table
	v := shape.AsInt(shape.Get(e.value, r.path))
	label := strconv.Itoa(v)
	if idx := table.Index(v); idx >= 0 {
		if l, ok := table.Label(idx); ok {
			label = l
		}
	}
	if focused {
		return e.styles.Muted.Render("◀ ") + e.styles.Value.Render(label) + e.styles.Muted.Render(" ▶")
	}
	return e.styles.Value.Render(label)
}

// itemHint advertises only the operations that are live at this index; the
// boundary directions are inert, so they are not offered.
func itemHint(i, length int) string {
	parts := []string{"[d] delete"}
	if i > 0 {
		parts = append(parts, "[K] up")
	}
	if i < length-1 {
		parts = append(parts, "[J] down")
	}
	return strings.Join(parts, "  ")
}

// rebuild regenerates the row list from the current value. Structural edits
// (presence toggles, array mutations) call this; scalar edits do not.
func (e *Editor) rebuild() {
	e.rows = e.buildRows(e.root, e.value, shape.Path{}, "", 0)
}

func (e *Editor) buildRows(sh shape.Shape, v any, p shape.Path, label string, indent int) []row {
	switch s := sh.(type) {
	case shape.Primitive:
		if s.Prim == shape.Bool {
			return []row{{kind: rowBool, path: p, sh: s, label: label, indent: indent}}
		}
		in := textinput.New()
		in.Prompt = ""
		in.Width = 24
		in.SetValue(formatPrimitive(s.Prim, v))
		return []row{{kind: rowText, path: p, sh: s, label: label, indent: indent, input: in}}
	case shape.Enum:
		return []row{{kind: rowEnum, path: p, sh: s, label: label, indent: indent}}
	case shape.Optional:
		rows := []row{{kind: rowOptional, path: p, sh: s, label: label, indent: indent}}
		if v != nil {
			rows = append(rows, e.buildRows(s.Inner, v, p, "value", indent+1)...)
		}
		return rows
	case shape.Array:
		rows := []row{{kind: rowArrayHead, path: p, sh: s, label: label, indent: indent}}
		items, _ := v.([]any)
		for i, item := range items {
			ip := p.IndexStep(i)
			rows = append(rows, row{
				kind: rowArrayItem, path: ip, sh: s, label: "item",
				indent: indent + 1, index: i, length: len(items),
			})
			rows = append(rows, e.buildRows(s.Inner, item, ip, elementLabel(s.Inner), indent+2)...)
		}
		return rows
	case shape.Record:
		var rows []row
		if label != "" {
			rows = append(rows, row{kind: rowSection, path: p, sh: s, label: label, indent: indent})
			indent++
		}
		rec, _ := v.(map[string]any)
		for _, f := range s.Fields {
			rows = append(rows, e.buildRows(f.Shape, rec[f.Name], p.FieldStep(f.Name), f.Name, indent)...)
		}
		return rows
	case shape.Reference:
		// References are display-only; the editor shows the raw identifier.
		id, _ := v.(string)
		return []row{{kind: rowSection, path: p, sh: s, label: fmt.Sprintf("%s @%s", label, id), indent: indent}}
	case shape.Plugin:
		return []row{{kind: rowSection, path: p, sh: s, label: label + " (plugin)", indent: indent}}
	}
	return nil
}

func elementLabel(inner shape.Shape) string {
	if rec, ok := inner.(shape.Record); ok && rec.Name != "" {
		return rec.Name
	}
	return "value"
}

func (e *Editor) focusFirst() {
	e.focus = -1
	e.moveFocus(1)
}

func (e *Editor) moveFocus(delta int) {
	if len(e.rows) == 0 {
		e.focus = -1
		return
	}
	i := e.focus
	for range e.rows {
		i += delta
		if i < 0 {
			i = len(e.rows) - 1
		}
		if i >= len(e.rows) {
			i = 0
		}
		if e.rows[i].focusable() {
			e.setFocus(i)
			return
		}
	}
}

// clampFocus re-targets focus after a rebuild changed the row count.
func (e *Editor) clampFocus() {
	if e.focus >= len(e.rows) {
		e.focus = len(e.rows) - 1
	}
	if e.focus < 0 || !e.rows[e.focus].focusable() {
		e.focusFirst()
		return
	}
	e.setFocus(e.focus)
}

func (e *Editor) setFocus(i int) {
	e.focus = i
	for j := range e.rows {
		if e.rows[j].kind != rowText {
			continue
		}
		if j == i {
			e.rows[j].input.Focus()
		} else {
			e.rows[j].input.Blur()
		}
	}
}

// parsePrimitive converts raw text to a staged scalar. Malformed numeric
// text is not rejected here: it stages the zero value while the typed text
// stays in the control, mirroring the pass-through error policy for input.
func parsePrimitive(k shape.PrimKind, text string) any {
	switch k {
	case shape.Int:
		n, _ := strconv.Atoi(strings.TrimSpace(text))
		return n
	case shape.Float:
		f, _ := strconv.ParseFloat(strings.TrimSpace(text), 64)
		return f
	default:
		return text
	}
}

func formatPrimitive(k shape.PrimKind, v any) string {
	switch k {
	case shape.Int:
		return strconv.Itoa(shape.AsInt(v))
	case shape.Float:
		f, _ := v.(float64)
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		s, _ := v.(string)
		return s
	}
}

