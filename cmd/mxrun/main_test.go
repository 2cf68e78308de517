package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/mxbridge"
	"github.com/wippyai/mxbridge/engine"
)

func newSession(t *testing.T) (*mxbridge.Bridge, *engine.Engine) {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.New(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b := mxbridge.New(eng)
	t.Cleanup(func() {
		b.Close()
		eng.Close(ctx)
	})
	return b, eng
}

func TestSplitNames(t *testing.T) {
	got := splitNames(" x, ,y,")
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("got %q", got)
	}
	if splitNames("") != nil {
		t.Error("empty list")
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	b, eng := newSession(t)

	if err := run(ctx, b, eng, "x = [1 2; 3 4];", "x", ""); err != nil {
		t.Fatal(err)
	}
	if err := run(ctx, b, eng, "y = 1;", "missing", ""); err == nil || !strings.Contains(err.Error(), "show missing") {
		t.Errorf("got %v", err)
	}
	if err := run(ctx, b, eng, "", "", "plus"); err != nil {
		t.Errorf("doc only: %v", err)
	}
	if st := b.Stats(); st.Live != 0 {
		t.Errorf("live handles: %d", st.Live)
	}
}

func TestDispatch(t *testing.T) {
	b, eng := newSession(t)
	m := newInteractiveModel(context.Background(), b, eng, "reference")

	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"a = 3;", "", false},
		{":show a", "3", false},
		{":vars", "a", false},
		{":help plus", "plus(a, b) is a + b.", false},
		{":help", ":show", false},
		{":stats", "live 0", false},
		{":nope", "", true},
		{"b = nope;", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			out, err := m.dispatch(tc.line)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err: %v", err)
			}
			if !strings.Contains(out, tc.want) {
				t.Errorf("output %q does not contain %q", out, tc.want)
			}
		})
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestQuitWaitsForCommand(t *testing.T) {
	b, eng := newSession(t)
	m := newInteractiveModel(context.Background(), b, eng, "reference")
	ctrlC := tea.KeyMsg{Type: tea.KeyCtrlC}

	m.busy = true
	if _, cmd := m.Update(ctrlC); isQuit(cmd) {
		t.Fatal("quit while a command is running")
	}
	if !m.closing {
		t.Fatal("ctrl+c while busy must schedule the quit")
	}
	if _, cmd := m.Update(resultMsg{input: "x = 1;"}); !isQuit(cmd) {
		t.Error("expected quit once the command finished")
	}

	idle := newInteractiveModel(context.Background(), b, eng, "reference")
	if _, cmd := idle.Update(ctrlC); !isQuit(cmd) {
		t.Error("ctrl+c on an idle prompt must quit")
	}
}
