package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Greenheart/hathora/internal/forms"
	"github.com/Greenheart/hathora/internal/game"
	"github.com/Greenheart/hathora/internal/refcache"
	"github.com/Greenheart/hathora/internal/transport"
)

type fakeBackend struct {
	mu      sync.Mutex
	snaps   chan transport.Snapshot
	submits []string
	resp    transport.Response
	err     error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		snaps: make(chan transport.Snapshot, 4),
		resp:  transport.Success(),
	}
}

func (b *fakeBackend) Snapshots() <-chan transport.Snapshot { return b.snaps }

func (b *fakeBackend) Submit(_ context.Context, method string, _ any) (transport.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submits = append(b.submits, method)
	return b.resp, b.err
}

func (b *fakeBackend) LookupUser(_ context.Context, id string) (*refcache.Descriptor, error) {
	return &refcache.Descriptor{ID: id, Type: "anonymous"}, nil
}

func (b *fakeBackend) UserID() string { return "u1" }
func (b *fakeBackend) Close() error   { return nil }

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got, cmd
}

func TestViewBeforeFirstSnapshot(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())

	view := m.View()
	if !strings.Contains(view, "waiting for first snapshot") {
		t.Errorf("expected waiting notice, got:\n%s", view)
	}
	if !strings.Contains(view, "u1") {
		t.Errorf("header should show the user, got:\n%s", view)
	}
}

func TestSnapshotRendersStateTree(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())

	m, _ = update(t, m, snapshotMsg{
		snap: transport.Snapshot{State: game.SampleState(), At: time.Now()},
		ok:   true,
	})

	view := m.View()
	if !strings.Contains(view, "players") {
		t.Errorf("expected players section, got:\n%s", view)
	}
	if !strings.Contains(view, "updated ") {
		t.Errorf("expected snapshot timestamp, got:\n%s", view)
	}
}

func TestPageSwitching(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())

	m, _ = update(t, m, keyPress('e'))
	if m.page != pageForms {
		t.Fatalf("page = %v after 'e', want forms", m.page)
	}
	if !strings.Contains(m.View(), "createGame") {
		t.Errorf("forms page should list operations:\n%s", m.View())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.page != pageState {
		t.Fatalf("page = %v after esc, want state", m.page)
	}
}

func TestFormCycling(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())
	m, _ = update(t, m, keyPress('e'))

	m, _ = update(t, m, keyPress(']'))
	if got := m.forms[m.formIdx].Name(); got != "joinGame" {
		t.Errorf("after ]: active form %q, want joinGame", got)
	}
	m, _ = update(t, m, keyPress('['))
	m, _ = update(t, m, keyPress('['))
	if got := m.forms[m.formIdx].Name(); got != "voteInQuest" {
		t.Errorf("after [[: active form %q, want voteInQuest", got)
	}
}

func TestSubmitErrorBecomesToast(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())

	m, _ = update(t, m, forms.SubmittedMsg{
		Form: "voteInQuest",
		Resp: transport.Errorf("already voted"),
	})

	if m.toasts.Len() != 1 {
		t.Fatalf("toasts = %d, want 1", m.toasts.Len())
	}
	if !strings.Contains(m.View(), "already voted") {
		t.Errorf("toast text missing from view:\n%s", m.View())
	}
}

func TestToastExpires(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())
	m, _ = update(t, m, forms.SubmittedMsg{Form: "joinGame", Resp: transport.Success()})
	if m.toasts.Len() != 1 {
		t.Fatalf("toasts = %d, want 1", m.toasts.Len())
	}

	m, _ = update(t, m, toastExpiredMsg{id: 0})
	if m.toasts.Len() != 0 {
		t.Errorf("toast did not expire")
	}
}

func TestClosedChannelShowsToast(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())

	m, _ = update(t, m, snapshotMsg{ok: false})
	if !strings.Contains(m.View(), "connection closed") {
		t.Errorf("expected connection-closed toast:\n%s", m.View())
	}

	// A second close notification is not stacked.
	m, _ = update(t, m, snapshotMsg{ok: false})
	if m.toasts.Len() != 1 {
		t.Errorf("toasts = %d after repeat close, want 1", m.toasts.Len())
	}
}

func TestStatePageScrollsLongContent(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 8})
	m, _ = update(t, m, snapshotMsg{
		snap: transport.Snapshot{State: game.SampleState(), At: time.Now()},
		ok:   true,
	})

	if m.vp.TotalLineCount() <= m.vp.Height {
		t.Fatalf("sample state should overflow a %d-line viewport (%d lines)",
			m.vp.Height, m.vp.TotalLineCount())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.vp.YOffset == 0 {
		t.Error("pgdown should scroll the state page")
	}
	for i := 0; i < 50 && !m.vp.AtBottom(); i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	}
	if !m.vp.AtBottom() {
		t.Error("paging down should reach the end of the tree")
	}
}

func TestHelpAdvertisesBoundKeysOnly(t *testing.T) {
	if strings.Contains(helpMarkdown, "| `1` |") {
		t.Error("help advertises a key no page binds")
	}
	for _, want := range []string{"| `esc` |", "`e` or `2`", "pgup"} {
		if !strings.Contains(helpMarkdown, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestHelpPage(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())

	m, _ = update(t, m, keyPress('?'))
	if m.page != pageHelp {
		t.Fatalf("page = %v after ?, want help", m.page)
	}
	if !strings.Contains(m.View(), "Game Console") {
		t.Errorf("help content missing:\n%s", m.View())
	}
}

func TestQuitKeys(t *testing.T) {
	m := New(newFakeBackend(), nil, DefaultStyles())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should produce a quit command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("ctrl+c produced %T, want tea.QuitMsg", msg)
	}
}

func TestReplayBackendIsReadOnly(t *testing.T) {
	b := ReplayBackend{}
	if _, err := b.Submit(context.Background(), "createGame", nil); err == nil {
		t.Error("replay submit should fail")
	}
	d, err := b.LookupUser(context.Background(), "u1")
	if err != nil || d != nil {
		t.Errorf("replay lookup = (%v, %v), want unresolved", d, err)
	}
}
