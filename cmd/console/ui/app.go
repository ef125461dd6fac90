package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Greenheart/hathora/internal/forms"
	"github.com/Greenheart/hathora/internal/game"
	"github.com/Greenheart/hathora/internal/inspect"
	"github.com/Greenheart/hathora/internal/pluginreg"
	"github.com/Greenheart/hathora/internal/refcache"
	"github.com/Greenheart/hathora/internal/replay"
	"github.com/Greenheart/hathora/internal/session"
	"github.com/Greenheart/hathora/internal/transport"
)

// Backend is the state source behind the shell. A live connection implements
// all of it; replay mode stubs the interactive half.
type Backend interface {
	Snapshots() <-chan transport.Snapshot
	Submit(ctx context.Context, method string, payload any) (transport.Response, error)
	LookupUser(ctx context.Context, userID string) (*refcache.Descriptor, error)
	UserID() string
	Close() error
}

// ReplayBackend adapts a snapshot file source. Submits are rejected and
// references never resolve.
type ReplayBackend struct {
	Src *replay.Source
}

func (r ReplayBackend) Snapshots() <-chan transport.Snapshot { return r.Src.Snapshots() }

func (r ReplayBackend) Submit(context.Context, string, any) (transport.Response, error) {
	return transport.Response{}, errors.New("replay mode is read-only")
}

func (r ReplayBackend) LookupUser(context.Context, string) (*refcache.Descriptor, error) {
	return nil, nil
}

func (r ReplayBackend) UserID() string { return "replay" }
func (r ReplayBackend) Close() error   { return r.Src.Close() }

type page int

const (
	pageState page = iota
	pageForms
	pageHelp
)

// snapshotMsg carries one inbound state snapshot. ok is false once the
// backend channel closes.
type snapshotMsg struct {
	snap transport.Snapshot
	ok   bool
}

// Model is the top-level program model: page routing, the state tree, the
// request forms, and transient notifications.
type Model struct {
	backend Backend
	log     *zap.Logger
	styles  Styles

	width  int
	height int

	page    page
	prev    page
	tree    inspect.Model
	forms   []forms.Form
	formIdx int
	toasts  Toasts
	keys    keyMap
	helpbar help.Model
	vp      viewport.Model

	help     string
	closed   bool
	quitting bool
}

// New wires the shell over a backend. The quest-board plugin and one form
// per operation are registered here.
func New(backend Backend, log *zap.Logger, styles Styles) Model {
	if log == nil {
		log = zap.NewNop()
	}

	refs := refcache.New(backend.LookupUser)
	plugins := pluginreg.NewRegistry()
	if err := plugins.Register(game.BoardElementID, game.NewBoardElement()); err != nil {
		panic(err) // fresh registry, cannot collide
	}
	tree := inspect.New(game.StateShape(), refs, plugins)
	tree.SetStyles(styles.TreeStyles())
	tree.SetSession(session.Context{Conn: backend, UserID: backend.UserID()})

	fs := make([]forms.Form, 0, len(game.Operations()))
	for _, op := range game.Operations() {
		method := op.Method
		f := forms.New(op.Name, op.Shape, op.Factory, func(ctx context.Context, payload any) (transport.Response, error) {
			return backend.Submit(ctx, method, payload)
		})
		f.SetStyles(styles.FormStyles(), styles.EditorStyles())
		fs = append(fs, f)
	}

	// The tree owns up/down and space; the state-page viewport only reacts
	// to paging keys and the mouse wheel.
	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
	}

	return Model{
		backend: backend,
		log:     log.Named("ui"),
		styles:  styles,
		tree:    tree,
		forms:   fs,
		toasts:  NewToasts(styles),
		keys:    defaultKeyMap(),
		helpbar: help.New(),
		vp:      vp,
	}
}

// syncViewport refreshes the scrollable state-page content after any change
// to the tree's rendering.
func (m *Model) syncViewport() {
	if m.tree.Session().State == nil {
		return
	}
	m.vp.SetContent(m.tree.View())
}

// Init starts the plugin error feed and the snapshot pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tree.Init(), m.waitSnapshot())
}

// waitSnapshot blocks on the backend channel and re-arms after each message.
func (m Model) waitSnapshot() tea.Cmd {
	ch := m.backend.Snapshots()
	return func() tea.Msg {
		snap, ok := <-ch
		return snapshotMsg{snap: snap, ok: ok}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpbar.Width = msg.Width
		m.vp.Width = msg.Width - 4
		vh := msg.Height - 5 // header, padding, stamp, toasts, footer
		if vh < 3 {
			vh = 3
		}
		m.vp.Height = vh
		m.syncViewport()
		m.help = "" // re-rendered at the new width on demand
		return m, nil

	case snapshotMsg:
		if !msg.ok {
			if !m.closed {
				m.closed = true
				return m, m.toasts.Push(toastError, "connection closed")
			}
			return m, nil
		}
		m.tree.SetSession(m.tree.Session().WithSnapshot(msg.snap))
		cmd := m.tree.Refresh()
		m.syncViewport()
		return m, tea.Batch(cmd, m.waitSnapshot())

	case toastExpiredMsg:
		m.toasts.Update(msg)
		return m, nil

	case inspect.RefResolvedMsg:
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		m.syncViewport()
		return m, cmd

	case inspect.PluginErrorMsg:
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		m.syncViewport()
		m.log.Warn("plugin error", zap.String("element", msg.Element), zap.String("detail", msg.Detail))
		return m, tea.Batch(cmd, m.toasts.Push(toastError, fmt.Sprintf("%s: %s", msg.Element, msg.Detail)))

	case forms.SubmittedMsg:
		return m.onSubmitted(msg)

	case spinner.TickMsg:
		return m.routeToForms(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m Model) onSubmitted(msg forms.SubmittedMsg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.forms {
		var cmd tea.Cmd
		m.forms[i], cmd = m.forms[i].Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch {
	case msg.Err != nil:
		m.log.Warn("submit failed", zap.String("form", msg.Form), zap.Error(msg.Err))
		cmds = append(cmds, m.toasts.Push(toastError, fmt.Sprintf("%s: %v", msg.Form, msg.Err)))
	case !msg.Resp.OK():
		cmds = append(cmds, m.toasts.Push(toastError, fmt.Sprintf("%s: %s", msg.Form, msg.Resp.Error)))
	default:
		cmds = append(cmds, m.toasts.Push(toastSuccess, fmt.Sprintf("%s accepted", msg.Form)))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) routeToForms(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.forms {
		var cmd tea.Cmd
		m.forms[i], cmd = m.forms[i].Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) onKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.tree.Close()
		m.backend.Close()
		return m, tea.Quit
	case "esc":
		if m.page != pageState {
			m.page = pageState
			return m, nil
		}
		return m, nil
	}

	switch m.page {
	case pageHelp:
		if key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.Help) {
			m.page = m.prev
		}
		return m, nil

	case pageState:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.tree.Close()
			m.backend.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Requests):
			m.page = pageForms
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.prev = m.page
			m.page = pageHelp
			return m, nil
		}
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		m.syncViewport()
		var vpCmd tea.Cmd
		m.vp, vpCmd = m.vp.Update(msg)
		return m, tea.Batch(cmd, vpCmd)

	case pageForms:
		switch {
		case key.Matches(msg, m.keys.PrevForm):
			m.formIdx = (m.formIdx + len(m.forms) - 1) % len(m.forms)
			return m, nil
		case key.Matches(msg, m.keys.NextForm):
			m.formIdx = (m.formIdx + 1) % len(m.forms)
			return m, nil
		}
		var cmd tea.Cmd
		m.forms[m.formIdx], cmd = m.forms[m.formIdx].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.viewHeader()
	var body string
	switch m.page {
	case pageHelp:
		if m.help == "" {
			m.help = renderHelp(m.width-4, m.styles.Theme.IsDark)
		}
		body = m.help
	case pageForms:
		body = m.viewForms()
	default:
		body = m.viewState()
	}

	out := header + "\n" + m.styles.Content.Render(body)
	if m.toasts.Len() > 0 {
		out += "\n" + m.toasts.View()
	}
	out += "\n" + m.viewFooter()
	return out
}

func (m Model) viewHeader() string {
	tabs := []string{"state", "requests", "help"}
	active := map[page]int{pageState: 0, pageForms: 1, pageHelp: 2}[m.page]
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if i == active {
			parts[i] = m.styles.TabActive.Render(t)
		} else {
			parts[i] = m.styles.TabInactive.Render(t)
		}
	}
	title := m.styles.Header.Render("hathora console")
	user := m.styles.Muted.Render("user " + m.backend.UserID())
	return lipgloss.JoinHorizontal(lipgloss.Center,
		title, "  ", parts[0], " │ ", parts[1], " │ ", parts[2], "  ", user)
}

func (m Model) viewState() string {
	sess := m.tree.Session()
	if sess.State == nil {
		return m.styles.Muted.Render("waiting for first snapshot…")
	}
	stamp := m.styles.Subtitle.Render("updated " + sess.UpdatedAt.Format("15:04:05"))
	if m.vp.Height > 0 {
		return m.vp.View() + "\n" + stamp
	}
	// No window size seen yet; render unclipped.
	return m.tree.View() + "\n" + stamp
}

func (m Model) viewForms() string {
	if len(m.forms) == 0 {
		return m.styles.Muted.Render("no operations")
	}
	names := make([]string, len(m.forms))
	for i, f := range m.forms {
		if i == m.formIdx {
			names[i] = m.styles.TabActive.Render(f.Name())
		} else {
			names[i] = m.styles.TabInactive.Render(f.Name())
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, joinWith(names, "  ")...)
	panel := m.styles.Panel.Render(m.forms[m.formIdx].View())
	return bar + "\n\n" + panel
}

func joinWith(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

func (m Model) viewFooter() string {
	var bindings []key.Binding
	switch m.page {
	case pageForms:
		bindings = m.keys.formKeys()
	case pageHelp:
		bindings = m.keys.helpKeys()
	default:
		bindings = m.keys.stateKeys()
	}
	return m.styles.Footer.Render(m.helpbar.ShortHelpView(bindings))
}
