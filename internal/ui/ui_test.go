package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{0, 4, 8, "░░░░░░░░   0%"},
		{2, 4, 8, "████░░░░  50%"},
		{4, 4, 8, "████████ 100%"},
		{0, 0, 2, "░░░░░   0%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.done, tt.total, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q", tt.done, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestPanelAlignsAccents(t *testing.T) {
	SetColorForcing(false, true)
	SetTheme("mono")
	t.Cleanup(func() {
		SetColorForcing(false, false)
		SetTheme("classic")
	})

	var buf bytes.Buffer
	Panel(&buf, []string{"Feijão", "Arroz"})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"+--------+",
		"| Feijão |",
		"| Arroz  |",
		"+--------+",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestColumns(t *testing.T) {
	got := Columns([][]string{
		{"1", "Açúcar", "2 kg"},
		{"10", "Sal", "1 un"},
	})
	want := []string{
		"1   Açúcar  2 kg",
		"10  Sal     1 un",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetThemeFallback(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })
	SetTheme("neon")
	if Current().Name != "neon" {
		t.Errorf("theme = %q", Current().Name)
	}
	SetTheme("sparkly")
	if Current().Name != "classic" {
		t.Errorf("unknown theme = %q, want classic", Current().Name)
	}
}

func TestStatusLinesWithoutColor(t *testing.T) {
	SetColorForcing(false, true)
	t.Cleanup(func() { SetColorForcing(false, false) })

	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	if got := buf.String(); got != "✔ added\n✖ nope\n" {
		t.Errorf("output = %q", got)
	}
}
