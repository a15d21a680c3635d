package notify

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "Text copied: hi", 50, "Text copied: hi"},
		{"exact", strings.Repeat("a", 50), 50, strings.Repeat("a", 50)},
		{"long", strings.Repeat("a", 51), 50, strings.Repeat("a", 47) + "..."},
		{"runes not bytes", strings.Repeat("é", 60), 50, strings.Repeat("é", 47) + "..."},
		{"tiny limit", "abcdef", 2, "ab"},
		{"empty", "", 50, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
			if utf8.RuneCountInString(got) > tt.n {
				t.Errorf("Truncate() has %d runes, limit %d", utf8.RuneCountInString(got), tt.n)
			}
		})
	}
}

func TestDesktop_Notify(t *testing.T) {
	var gotTitle, gotMsg string
	d := &Desktop{title: "Clipbridge", send: func(title, message string) error {
		gotTitle, gotMsg = title, message
		return nil
	}}

	long := "Text copied: " + strings.Repeat("x", 100)
	if err := d.Notify(long); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if gotTitle != "Clipbridge" {
		t.Errorf("title = %q, want %q", gotTitle, "Clipbridge")
	}
	if utf8.RuneCountInString(gotMsg) != MaxDisplayRunes || !strings.HasSuffix(gotMsg, "...") {
		t.Errorf("message = %q, want %d runes ending in ...", gotMsg, MaxDisplayRunes)
	}
}

func TestDesktop_NotifyError(t *testing.T) {
	boom := errors.New("no dbus")
	d := &Desktop{title: "t", send: func(string, string) error { return boom }}

	if err := d.Notify("Image copied to clipboard"); !errors.Is(err, boom) {
		t.Errorf("Notify() error = %v, want wrapping %v", err, boom)
	}
}

func TestLog_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := n.Notify("Image copied to clipboard"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Image copied to clipboard") {
		t.Errorf("log output missing message: %q", buf.String())
	}
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	if _, ok := New(true, "t", logger).(*Log); !ok {
		t.Error("New(disabled) did not return *Log")
	}
	d, ok := New(false, "Clipbridge", logger).(*Desktop)
	if !ok {
		t.Fatal("New(enabled) did not return *Desktop")
	}
	if d.title != "Clipbridge" {
		t.Errorf("title = %q, want %q", d.title, "Clipbridge")
	}
}
