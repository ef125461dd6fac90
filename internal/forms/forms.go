// Package forms holds one staged request per outgoing operation. A form owns
// its staged value from construction until submit, renders it through the
// editor, and resets to a fresh factory default after every completed submit
// attempt, success or failure.
package forms

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Greenheart/hathora/internal/edit"
	"github.com/Greenheart/hathora/internal/shape"
	"github.com/Greenheart/hathora/internal/transport"
)

// submitTimeout bounds one submit round-trip.
const submitTimeout = 10 * time.Second

// SubmitFunc performs the external submit operation for one request kind.
type SubmitFunc func(ctx context.Context, payload any) (transport.Response, error)

// SubmittedMsg reports a completed submit attempt. The owning form consumes
// it to reset; the app shell consumes it to surface failures.
type SubmittedMsg struct {
	Form string
	Resp transport.Response
	Err  error
}

// Styles are the form chrome styles; the editor carries its own.
type Styles struct {
	Title  lipgloss.Style
	Hint   lipgloss.Style
	Active lipgloss.Style
}

// DefaultStyles returns unthemed form styles.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true),
		Hint:   lipgloss.NewStyle().Faint(true),
		Active: lipgloss.NewStyle().Bold(true),
	}
}

// Form is the orchestrator for one request kind.
type Form struct {
	name    string
	factory func() any
	submit  SubmitFunc
	editor  edit.Editor
	spin    spinner.Model
	styles  Styles

	// inFlight guards against double submission while a call is pending.
	inFlight bool
}

// New builds a form whose staged value starts from factory().
func New(name string, sh shape.Shape, factory func() any, submit SubmitFunc) Form {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Form{
		name:    name,
		factory: factory,
		submit:  submit,
		editor:  edit.New(sh, factory(), nil),
		spin:    sp,
		styles:  DefaultStyles(),
	}
}

// Name returns the operation name this form stages.
func (f Form) Name() string { return f.name }

// InFlight reports whether a submit call is pending.
func (f Form) InFlight() bool { return f.inFlight }

// Staged returns the current staged payload.
func (f Form) Staged() any { return f.editor.Value() }

// SetStyles applies themed chrome and editor styles.
func (f *Form) SetStyles(s Styles, es edit.Styles) {
	f.styles = s
	f.editor.SetStyles(es)
}

// Init is part of the tea model contract.
func (f Form) Init() tea.Cmd { return nil }

// Update handles input and submit completion.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case SubmittedMsg:
		if msg.Form != f.name {
			return f, nil
		}
		// Reset regardless of outcome; the staged value is discarded and
		// rebuilt from the factory.
		f.inFlight = false
		f.editor.SetValue(f.factory())
		return f, nil

	case spinner.TickMsg:
		if !f.inFlight {
			return f, nil
		}
		var cmd tea.Cmd
		f.spin, cmd = f.spin.Update(msg)
		return f, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return f.startSubmit()
		}
	}

	var cmd tea.Cmd
	f.editor, cmd = f.editor.Update(msg)
	return f, cmd
}

func (f Form) startSubmit() (Form, tea.Cmd) {
	if f.inFlight {
		// Single-flight: a pending call swallows further submits.
		return f, nil
	}
	f.inFlight = true

	name := f.name
	submit := f.submit
	payload := f.editor.Value()
	cmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		resp, err := submit(ctx, payload)
		return SubmittedMsg{Form: name, Resp: resp, Err: err}
	}
	return f, tea.Batch(f.spin.Tick, cmd)
}

// View renders the form.
func (f Form) View() string {
	title := f.styles.Title.Render(f.name)
	status := f.styles.Hint.Render("[ctrl+s] submit")
	if f.inFlight {
		status = f.spin.View() + f.styles.Hint.Render(" submitting…")
	}
	return title + "\n" + f.editor.View() + "\n" + status
}
