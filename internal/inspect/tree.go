package inspect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Greenheart/hathora/internal/pluginreg"
	"github.com/Greenheart/hathora/internal/refcache"
	"github.com/Greenheart/hathora/internal/session"
	"github.com/Greenheart/hathora/internal/shape"
)

// RefResolvedMsg reports one finished identity lookup. Failed lookups leave
// the node in its raw-identifier form; there is no retry.
type RefResolvedMsg struct {
	ID string
	OK bool
}

// PluginErrorMsg is an error signal relayed from a mounted plugin element.
// The app shell surfaces it as a transient notification.
type PluginErrorMsg struct {
	Element string
	Detail  string
}

// Styles holds the tree's lipgloss styles.
type Styles struct {
	Key    lipgloss.Style
	String lipgloss.Style
	Number lipgloss.Style
	Bool   lipgloss.Style
	Enum   lipgloss.Style
	Ref    lipgloss.Style
	Header lipgloss.Style
	Cursor lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultStyles returns unthemed tree styles.
func DefaultStyles() Styles {
	return Styles{
		Key:    lipgloss.NewStyle().Bold(true),
		String: lipgloss.NewStyle(),
		Number: lipgloss.NewStyle(),
		Bool:   lipgloss.NewStyle(),
		Enum:   lipgloss.NewStyle().Italic(true),
		Ref:    lipgloss.NewStyle().Underline(true),
		Header: lipgloss.NewStyle().Bold(true),
		Cursor: lipgloss.NewStyle().Bold(true).Reverse(true),
		Muted:  lipgloss.NewStyle().Faint(true),
	}
}

// Model renders the latest state snapshot as a collapsible read-only tree.
// The cursor walks the collapsible nodes; enter or space toggles one.
type Model struct {
	root   shape.Shape
	sess   session.Context
	styles Styles

	states    *States
	refs      *refcache.Cache
	requested map[string]bool

	plugins *pluginreg.Registry
	errs    chan PluginErrorMsg
	cancels map[string]func()

	nodes  []string
	cursor int
}

// New builds a tree over the given shape. The reference cache and plugin
// registry are shared with the owning page; their lifetime is the tree's.
func New(root shape.Shape, refs *refcache.Cache, plugins *pluginreg.Registry) Model {
	return Model{
		root:      root,
		styles:    DefaultStyles(),
		states:    NewStates(),
		refs:      refs,
		requested: make(map[string]bool),
		plugins:   plugins,
		errs:      make(chan PluginErrorMsg, 4),
		cancels:   make(map[string]func()),
	}
}

// SetStyles applies themed styles.
func (m *Model) SetStyles(s Styles) { m.styles = s }

// SetSession installs a newer ambient context. Collapse state survives
// snapshot updates; it is positional, not value-bound.
func (m *Model) SetSession(sess session.Context) { m.sess = sess }

// Session returns the ambient context currently rendered.
func (m Model) Session() session.Context { return m.sess }

// Init arms the plugin error relay.
func (m Model) Init() tea.Cmd { return m.waitPluginErr() }

// Refresh re-walks the tree after a snapshot change: seeds newly mounted
// nodes, rebuilds the cursor's node list, and kicks off any lookups and
// plugin subscriptions the walk discovered.
func (m *Model) Refresh() tea.Cmd {
	cmds := m.sync()
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Close detaches plugin subscriptions on unmount.
func (m *Model) Close() {
	for id, cancel := range m.cancels {
		cancel()
		delete(m.cancels, id)
	}
	close(m.errs)
}

// Update handles navigation, toggles, and async completions.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.cursor >= 0 && m.cursor < len(m.nodes) {
				m.states.Toggle(m.nodes[m.cursor])
				// Expanding can mount nodes that need lookups or
				// subscriptions.
				return m, m.Refresh()
			}
		}
	case RefResolvedMsg:
		return m, m.Refresh()
	case PluginErrorMsg:
		return m, m.waitPluginErr()
	}
	return m, nil
}

func (m Model) waitPluginErr() tea.Cmd {
	ch := m.errs
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) sync() []tea.Cmd {
	m.nodes = m.nodes[:0]
	var cmds []tea.Cmd
	m.walk(m.root, m.sess.State, shape.Path{}, &cmds)
	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return cmds
}

// walk mirrors the render traversal, registering collapsible nodes in order
// and discovering async work, without producing output.
func (m *Model) walk(sh shape.Shape, v any, p shape.Path, cmds *[]tea.Cmd) {
	key := p.String()
	switch s := sh.(type) {
	case shape.Optional:
		if v != nil {
			m.walk(s.Inner, v, p, cmds)
		}
	case shape.Array:
		items, _ := v.([]any)
		m.states.Seed(key, DefaultArrayCollapsed(len(items), shape.Composite(s.Inner)))
		m.nodes = append(m.nodes, key)
		if m.states.Collapsed(key) {
			return
		}
		for i, it := range items {
			m.walk(s.Inner, it, p.IndexStep(i), cmds)
		}
	case shape.Record:
		if len(p) > 0 {
			m.states.Seed(key, s.Collapsed)
			m.nodes = append(m.nodes, key)
			if m.states.Collapsed(key) {
				return
			}
		}
		rec, _ := v.(map[string]any)
		for _, f := range s.Fields {
			m.walk(f.Shape, rec[f.Name], p.FieldStep(f.Name), cmds)
		}
	case shape.Reference:
		id, _ := v.(string)
		if id == "" {
			return
		}
		if d, ok := m.refs.Peek(id); ok && d != nil {
			m.states.Seed(key, true)
			m.nodes = append(m.nodes, key)
			return
		}
		if m.requested[id] {
			return
		}
		m.requested[id] = true
		refs := m.refs
		*cmds = append(*cmds, func() tea.Msg {
			d, err := refs.Resolve(context.Background(), id)
			return RefResolvedMsg{ID: id, OK: err == nil && d != nil}
		})
	case shape.Plugin:
		m.states.Seed(key, false)
		m.nodes = append(m.nodes, key)
		if _, mounted := m.cancels[s.ElementID]; mounted {
			return
		}
		el, found := m.plugins.Get(s.ElementID)
		if !found {
			return
		}
		elemID := s.ElementID
		ch := m.errs
		m.cancels[elemID] = el.Subscribe(func(detail string) {
			select {
			case ch <- PluginErrorMsg{Element: elemID, Detail: detail}:
			default:
			}
		})
	}
}

// View renders the tree from the latest snapshot.
func (m Model) View() string {
	if m.sess.State == nil {
		return m.styles.Muted.Render("waiting for first snapshot…")
	}
	return m.renderNode(m.root, m.sess.State, shape.Path{}, "state", 0)
}

func (m Model) renderNode(sh shape.Shape, v any, p shape.Path, label string, indent int) string {
	pad := strings.Repeat("  ", indent)

	switch s := sh.(type) {
	case shape.Primitive:
		return pad + m.field(label) + " " + m.scalar(s.Prim, v)

	case shape.Enum:
		n := shape.AsInt(v)
		// Out-of-range values render as the bare number; a documented
		// silent-degrade, not a repair.
		if name, ok := s.Table.Label(n); ok {
			return pad + m.field(label) + " " + m.styles.Enum.Render(name)
		}
		return pad + m.field(label) + " " + m.styles.Number.Render(strconv.Itoa(n))

	case shape.Optional:
		if v == nil {
			return pad + m.field(label) + " " + m.styles.Muted.Render("none")
		}
		return m.renderNode(s.Inner, v, p, label, indent)

	case shape.Record:
		return m.renderRecord(s, v, p, label, indent)

	case shape.Array:
		return m.renderArray(s, v, p, label, indent)

	case shape.Reference:
		return m.renderReference(v, p, label, indent)

	case shape.Plugin:
		return m.renderPlugin(s, v, p, label, indent)
	}
	return pad + m.styles.Muted.Render("?")
}

func (m Model) renderRecord(s shape.Record, v any, p shape.Path, label string, indent int) string {
	pad := strings.Repeat("  ", indent)
	key := p.String()
	rec, _ := v.(map[string]any)

	renderFields := func(at int) string {
		parts := make([]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			parts = append(parts, m.renderNode(f.Shape, rec[f.Name], p.FieldStep(f.Name), f.Name, at))
		}
		return strings.Join(parts, "\n")
	}

	// The root record is the page itself; no header, no toggle.
	if len(p) == 0 {
		return renderFields(indent)
	}

	if m.states.Seed(key, s.Collapsed) {
		return pad + m.header(label, key) + " ▸ " + m.styles.Muted.Render("{…}")
	}
	return pad + m.header(label, key) + " ▾\n" + renderFields(indent+1)
}

func (m Model) renderArray(s shape.Array, v any, p shape.Path, label string, indent int) string {
	pad := strings.Repeat("  ", indent)
	key := p.String()
	items, _ := v.([]any)

	composite := shape.Composite(s.Inner)
	collapsed := m.states.Seed(key, DefaultArrayCollapsed(len(items), composite))
	count := m.styles.Muted.Render(fmt.Sprintf("(%d)", len(items)))

	if collapsed {
		return pad + m.header(label, key) + " ▸ " + count
	}
	head := pad + m.header(label, key) + " ▾ " + count
	if len(items) == 0 {
		return head
	}

	if composite {
		// Composite items flow horizontally.
		blocks := make([]string, len(items))
		gutter := lipgloss.NewStyle().MarginRight(2)
		for i, it := range items {
			blocks[i] = gutter.Render(m.renderNode(s.Inner, it, p.IndexStep(i), fmt.Sprintf("[%d]", i), 0))
		}
		joined := lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
		return head + "\n" + lipgloss.NewStyle().PaddingLeft((indent+1)*2).Render(joined)
	}

	// Scalar items stack vertically, every item present; the page viewport
	// caps the visible height and scrolls.
	var sb strings.Builder
	sb.WriteString(head)
	for i, it := range items {
		sb.WriteString("\n" + pad + "  - " + strings.TrimSpace(m.renderNode(s.Inner, it, p.IndexStep(i), "", 0)))
	}
	return sb.String()
}

func (m Model) renderReference(v any, p shape.Path, label string, indent int) string {
	pad := strings.Repeat("  ", indent)
	key := p.String()
	id, _ := v.(string)

	d, ok := m.refs.Peek(id)
	if !ok || d == nil {
		// Pre-resolution (and post-failure) form: the raw identifier with a
		// generic glyph.
		return pad + m.field(label) + " " + m.styles.Ref.Render("@"+id) + " " + m.styles.Muted.Render("⬡")
	}

	hdr := m.header(label, key) + " " + m.styles.Ref.Render("@"+id)
	if m.states.Seed(key, true) {
		return pad + hdr + " ▸"
	}
	inner := strings.Repeat("  ", indent+1)
	return pad + hdr + " ▾\n" +
		inner + m.field("id") + " " + m.styles.String.Render(d.ID) + "\n" +
		inner + m.field("type") + " " + m.styles.String.Render(d.Type)
}

func (m Model) renderPlugin(s shape.Plugin, v any, p shape.Path, label string, indent int) string {
	pad := strings.Repeat("  ", indent)
	key := p.String()
	hdr := m.header(label, key) + " " + m.styles.Muted.Render("⟐ "+s.ElementID)

	if m.states.Seed(key, false) {
		return pad + hdr + " ▸"
	}
	el, found := m.plugins.Get(s.ElementID)
	if !found {
		return pad + hdr + " ▾\n" + pad + "  " + m.styles.Muted.Render("no element registered")
	}
	// The element observes the latest value and session snapshot on every
	// re-render without being reconstructed.
	body := el.Render(pluginreg.RenderContext{Value: v, Session: m.sess})
	return pad + hdr + " ▾\n" + lipgloss.NewStyle().PaddingLeft((indent+1)*2).Render(body)
}

func (m Model) field(label string) string {
	if label == "" {
		return ""
	}
	return m.styles.Key.Render(label + ":")
}

func (m Model) header(label, key string) string {
	if len(m.nodes) > 0 && m.cursor >= 0 && m.cursor < len(m.nodes) && m.nodes[m.cursor] == key {
		return m.styles.Cursor.Render(label)
	}
	return m.styles.Header.Render(label)
}

func (m Model) scalar(k shape.PrimKind, v any) string {
	switch k {
	case shape.Bool:
		b, _ := v.(bool)
		return m.styles.Bool.Render(strconv.FormatBool(b))
	case shape.Int:
		return m.styles.Number.Render(strconv.Itoa(shape.AsInt(v)))
	case shape.Float:
		f, ok := v.(float64)
		if !ok {
			f = float64(shape.AsInt(v))
		}
		return m.styles.Number.Render(strconv.FormatFloat(f, 'g', -1, 64))
	default:
		s, _ := v.(string)
		return m.styles.String.Render(strconv.Quote(s))
	}
}
