package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 4 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

type toast struct {
	id    int
	level toastLevel
	text  string
}

// toastExpiredMsg removes one toast by id.
type toastExpiredMsg struct{ id int }

// Toasts is a transient notification stack. Each push schedules its own
// expiry; expired ids that were already dismissed are ignored.
type Toasts struct {
	items  []toast
	nextID int
	styles Styles
}

// NewToasts returns an empty stack.
func NewToasts(styles Styles) Toasts {
	return Toasts{styles: styles}
}

// Push appends a notification and returns the expiry timer command.
func (t *Toasts) Push(level toastLevel, text string) tea.Cmd {
	id := t.nextID
	t.nextID++
	t.items = append(t.items, toast{id: id, level: level, text: text})
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Update handles expiry messages.
func (t *Toasts) Update(msg tea.Msg) {
	exp, ok := msg.(toastExpiredMsg)
	if !ok {
		return
	}
	for i, item := range t.items {
		if item.id == exp.id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Len reports how many toasts are visible.
func (t Toasts) Len() int { return len(t.items) }

// View renders the stack, newest last.
func (t Toasts) View() string {
	if len(t.items) == 0 {
		return ""
	}
	out := ""
	for i, item := range t.items {
		if i > 0 {
			out += "\n"
		}
		switch item.level {
		case toastError:
			out += t.styles.ToastError.Render(item.text)
		case toastSuccess:
			out += t.styles.Toast.Render(t.styles.Success.Render(item.text))
		default:
			out += t.styles.Toast.Render(item.text)
		}
	}
	return out
}
