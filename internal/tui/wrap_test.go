package tui

import (
	"strings"
	"testing"
)

func TestWrapTextBreaksAtWidth(t *testing.T) {
	out := wrapText("stay off every social feed until midnight", 12)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 12 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
	if strings.ReplaceAll(out, "\n", " ") != "stay off every social feed until midnight" {
		t.Fatalf("wrapping altered the words: %q", out)
	}
}

func TestWrapTextZeroWidthPassthrough(t *testing.T) {
	if got := wrapText("unchanged text", 0); got != "unchanged text" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestWrapTextLongWordOwnLine(t *testing.T) {
	out := wrapText("a supercalifragilistic b", 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if lines[1] != "supercalifragilistic" {
		t.Fatalf("oversized word should sit on its own line, got %q", lines[1])
	}
}
