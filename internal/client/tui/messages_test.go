package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"staydesk/internal/client/inbox"
	"staydesk/internal/client/models"
	"staydesk/pkg/api"
)

var (
	me    = api.User{ID: "1", FirstName: "Me", LastName: "Self"}
	alice = api.User{ID: "2", FirstName: "Alice", LastName: "A"}
	bob   = api.User{ID: "3", FirstName: "Bob", LastName: "B"}
	t0    = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
)

type fakeAPI struct {
	mu sync.Mutex

	inbox     []api.Message
	threads   map[api.ID][]api.Message
	inboxErr  error
	meErr     error
	threadErr error
	sendErr   error

	listCalls   int
	meCalls     int
	threadCalls map[api.ID]int
	sent        []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		inbox: []api.Message{
			{ID: "m1", Sender: alice, Recipient: me, Body: "hi", SentAt: t0.Add(time.Minute)},
			{ID: "m2", Sender: me, Recipient: alice, Body: "hey", SentAt: t0.Add(2 * time.Minute)},
			{ID: "m3", Sender: bob, Recipient: me, Body: "yo", SentAt: t0.Add(3 * time.Minute)},
		},
		threads: map[api.ID][]api.Message{
			alice.ID: {
				{ID: "m1", Sender: alice, Recipient: me, Body: "hi", SentAt: t0.Add(time.Minute)},
				{ID: "m2", Sender: me, Recipient: alice, Body: "hey", SentAt: t0.Add(2 * time.Minute)},
			},
			bob.ID: {
				{ID: "m3", Sender: bob, Recipient: me, Body: "yo", SentAt: t0.Add(3 * time.Minute)},
			},
		},
		threadCalls: map[api.ID]int{},
	}
}

func (f *fakeAPI) ListMessages(ctx context.Context) ([]api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.inbox, f.inboxErr
}

func (f *fakeAPI) Me(ctx context.Context) (api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	if f.meErr != nil {
		return api.User{}, f.meErr
	}
	refreshed := me
	refreshed.Email = "me@example.com"
	return refreshed, nil
}

func (f *fakeAPI) Conversation(ctx context.Context, userID api.ID) ([]api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threadCalls[userID]++
	if f.threadErr != nil {
		return nil, f.threadErr
	}
	return f.threads[userID], nil
}

func (f *fakeAPI) SendMessage(ctx context.Context, recipientID api.ID, body string) (api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, body)
	if f.sendErr != nil {
		return api.Message{}, f.sendErr
	}
	msg := api.Message{ID: "new", Sender: me, Recipient: api.User{ID: recipientID}, Body: body, SentAt: t0.Add(time.Hour)}
	f.threads[recipientID] = append(f.threads[recipientID], msg)
	return msg, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds the result back into the view.
func run(v *MessagesView, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	v.Update(cmd())
}

func loadedView(t *testing.T, f *fakeAPI) *MessagesView {
	t.Helper()
	v := NewMessagesView(f, me, inbox.FirstSeen, DefaultMobileBreakpoint, 1)
	v.Resize(120, 40)
	run(v, v.Init())
	if v.Loading() {
		t.Fatal("inbox still loading")
	}
	return v
}

func TestInitLoadsInbox(t *testing.T) {
	f := newFakeAPI()
	v := NewMessagesView(f, me, inbox.FirstSeen, DefaultMobileBreakpoint, 1)
	cmd := v.Init()
	if !v.Loading() {
		t.Fatal("expected loading after Init")
	}
	run(v, cmd)

	if f.listCalls != 1 {
		t.Fatalf("expected 1 inbox fetch, got %d", f.listCalls)
	}
	convs := v.Conversations()
	if len(convs) != 2 || convs[0].Counterpart.ID != alice.ID || convs[1].Counterpart.ID != bob.ID {
		t.Fatalf("unexpected conversations: %+v", convs)
	}
	if convs[0].LastMessage != "hi" {
		t.Fatalf("expected first-seen preview, got %q", convs[0].LastMessage)
	}
	if len(v.Messages()) != 3 {
		t.Fatalf("expected inbox messages kept, got %d", len(v.Messages()))
	}
}

func TestInitFailureClearsLoading(t *testing.T) {
	f := newFakeAPI()
	f.inboxErr = errors.New("boom")
	v := loadedView(t, f)
	if len(v.Conversations()) != 0 {
		t.Fatalf("expected no conversations, got %d", len(v.Conversations()))
	}
	if v.Alert() != nil {
		t.Fatal("read failures must not raise an alert")
	}
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	f := newFakeAPI()
	v := NewMessagesView(f, me, inbox.FirstSeen, DefaultMobileBreakpoint, 1)
	v.Init()
	if cmd := v.Update(key("enter")); cmd != nil {
		t.Fatal("expected no command while loading")
	}
	if _, ok := v.Selected(); ok {
		t.Fatal("selection changed while loading")
	}
}

func TestSelectFetchesThreadOnce(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)

	run(v, v.Select(alice))

	if f.threadCalls[alice.ID] != 1 {
		t.Fatalf("expected 1 thread fetch, got %d", f.threadCalls[alice.ID])
	}
	if v.Panel() != ShowingThread {
		t.Fatal("expected thread panel")
	}
	sel, ok := v.Selected()
	if !ok || sel.ID != alice.ID {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if len(v.Messages()) != 2 {
		t.Fatalf("expected thread to replace inbox, got %d messages", len(v.Messages()))
	}
}

func TestReselectFetchesAgain(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)

	run(v, v.Select(alice))
	run(v, v.Select(alice))

	if f.threadCalls[alice.ID] != 2 {
		t.Fatalf("expected 2 thread fetches, got %d", f.threadCalls[alice.ID])
	}
}

func TestSelectWithKeyboard(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)

	v.Update(key("j"))
	run(v, v.Update(key("enter")))

	sel, ok := v.Selected()
	if !ok || sel.ID != bob.ID {
		t.Fatalf("expected bob selected, got %+v", sel)
	}
	if f.threadCalls[bob.ID] != 1 {
		t.Fatalf("expected 1 fetch for bob, got %d", f.threadCalls[bob.ID])
	}
}

func TestStaleThreadResponseDiscarded(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)

	slow := v.Select(alice)
	fast := v.Select(bob)
	run(v, fast)
	run(v, slow)

	sel, _ := v.Selected()
	if sel.ID != bob.ID {
		t.Fatalf("expected bob selected, got %s", sel.ID)
	}
	msgs := v.Messages()
	if len(msgs) != 1 || msgs[0].Body != "yo" {
		t.Fatalf("stale thread overwrote active one: %+v", msgs)
	}
}

func TestBackDiscardsInFlightThread(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)

	pending := v.Select(alice)
	v.Back()
	run(v, pending)

	if _, ok := v.Selected(); ok {
		t.Fatal("expected no selection after back")
	}
	if v.Panel() != ShowingList {
		t.Fatal("expected list panel after back")
	}
	if len(v.Messages()) != 3 {
		t.Fatalf("late thread response replaced inbox: %d messages", len(v.Messages()))
	}
	if f.listCalls != 1 {
		t.Fatalf("back must not reload the inbox, got %d fetches", f.listCalls)
	}
}

func TestEscGoesBack(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)
	run(v, v.Select(alice))

	v.Update(key("esc"))
	if v.Panel() != ShowingList {
		t.Fatal("expected esc to return to the list")
	}
}

func TestThreadFailureShowsEmptyThread(t *testing.T) {
	f := newFakeAPI()
	f.threadErr = errors.New("boom")
	v := loadedView(t, f)

	run(v, v.Select(alice))
	if len(v.Messages()) != 0 {
		t.Fatalf("expected empty thread, got %d messages", len(v.Messages()))
	}
	if v.Alert() != nil {
		t.Fatal("read failures must not raise an alert")
	}
}

func TestSubmitBlankDraftMakesNoCall(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)
	run(v, v.Select(alice))

	for _, draft := range []string{"", "   ", "\t "} {
		v.SetDraft(draft)
		if cmd := v.Submit(); cmd != nil {
			t.Fatalf("expected no command for draft %q", draft)
		}
	}
	if len(f.sent) != 0 {
		t.Fatalf("expected no sends, got %d", len(f.sent))
	}
	if f.threadCalls[alice.ID] != 1 {
		t.Fatalf("expected no extra fetches, got %d", f.threadCalls[alice.ID])
	}
}

func TestSubmitWithoutSelectionMakesNoCall(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)
	v.SetDraft("hello")
	if cmd := v.Submit(); cmd != nil {
		t.Fatal("expected no command without a selection")
	}
}

func TestSubmitSuccessClearsDraftAndRefetches(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)
	run(v, v.Select(alice))

	v.SetDraft("  see you soon ")
	sendCmd := v.Update(key("enter"))
	if sendCmd == nil {
		t.Fatal("expected a send command")
	}
	refetch := v.Update(sendCmd())
	if v.Draft() != "" {
		t.Fatalf("expected draft cleared, got %q", v.Draft())
	}
	run(v, refetch)

	if len(f.sent) != 1 || f.sent[0] != "  see you soon " {
		t.Fatalf("unexpected sends: %q", f.sent)
	}
	if f.threadCalls[alice.ID] != 2 {
		t.Fatalf("expected exactly one refetch, got %d fetches", f.threadCalls[alice.ID])
	}
	msgs := v.Messages()
	if len(msgs) != 3 || msgs[2].Body != "  see you soon " {
		t.Fatalf("thread not refreshed: %+v", msgs)
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	f := newFakeAPI()
	f.sendErr = errors.New("boom")
	v := loadedView(t, f)
	run(v, v.Select(alice))
	before := len(v.Messages())

	v.SetDraft("hello")
	refetch := v.Update(v.Submit()())
	if refetch != nil {
		t.Fatal("expected no refetch after a failed send")
	}
	if v.Draft() != "hello" {
		t.Fatalf("expected draft kept, got %q", v.Draft())
	}
	if v.Alert() == nil || v.Alert().Message != sendFailedText {
		t.Fatalf("expected send failure alert, got %+v", v.Alert())
	}
	if len(v.Messages()) != before {
		t.Fatal("messages changed after a failed send")
	}
	if f.threadCalls[alice.ID] != 1 {
		t.Fatalf("expected no refetch, got %d fetches", f.threadCalls[alice.ID])
	}
}

func TestAlertBlocksKeys(t *testing.T) {
	f := newFakeAPI()
	f.sendErr = errors.New("boom")
	v := loadedView(t, f)
	run(v, v.Select(alice))
	v.SetDraft("hello")
	v.Update(v.Submit()())

	v.Update(key("x"))
	if v.Draft() != "hello" {
		t.Fatalf("typing reached the composer behind the alert: %q", v.Draft())
	}
	if cmd := v.Update(key("q")); cmd != nil {
		t.Fatal("expected keys swallowed by the alert")
	}

	v.Update(key("enter"))
	if v.Alert() != nil {
		t.Fatal("expected enter to dismiss the alert")
	}
	if len(f.sent) != 1 {
		t.Fatalf("dismissing the alert must not resend, got %d sends", len(f.sent))
	}
}

func TestSendAfterSwitchDoesNotRefetch(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)
	run(v, v.Select(alice))

	v.SetDraft("hello")
	send := v.Submit()
	run(v, v.Select(bob))

	if cmd := v.Update(send()); cmd != nil {
		t.Fatal("expected no refetch for a conversation no longer shown")
	}
	if f.threadCalls[alice.ID] != 1 {
		t.Fatalf("unexpected alice fetches: %d", f.threadCalls[alice.ID])
	}
}

func TestResponsesForOldMountIgnored(t *testing.T) {
	f := newFakeAPI()
	old := NewMessagesView(f, me, inbox.FirstSeen, DefaultMobileBreakpoint, 2)

	pending := old.Init()

	v := loadedView(t, f)
	before := len(v.Conversations())
	f.inbox = nil
	v.Update(pending())
	v.Update(models.InboxLoaded{Mount: 2})
	if len(v.Conversations()) != before {
		t.Fatal("response from another mount was applied")
	}
}

func TestMobileLayoutShowsOnePanel(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)
	v.Resize(60, 30)

	if out := v.View(); !strings.Contains(out, "Conversations") {
		t.Fatalf("expected list in narrow layout:\n%s", out)
	}
	run(v, v.Select(alice))
	if out := v.View(); strings.Contains(out, "Conversations") {
		t.Fatalf("expected list hidden while a thread is open:\n%s", out)
	}
}

func TestWideLayoutShowsBothPanels(t *testing.T) {
	f := newFakeAPI()
	v := loadedView(t, f)

	out := v.View()
	if !strings.Contains(out, "Conversations") || !strings.Contains(out, "Select a conversation") {
		t.Fatalf("expected list and placeholder:\n%s", out)
	}
}
