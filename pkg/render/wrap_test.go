package render

import (
	"reflect"
	"strings"
	"testing"

	"golang.org/x/image/font/basicfont"
)

// Tests use the fixed-size bitmap face so measurements are identical on
// every host regardless of installed fonts.

func TestWrapWidthProperty(t *testing.T) {
	face := basicfont.Face7x13
	text := "the quick brown fox jumps over the lazy dog and keeps on running far away"
	maxWidth := 120

	lines := Wrap(text, face, maxWidth)
	if len(lines) == 0 {
		t.Fatal("Wrap returned no lines")
	}

	for _, line := range lines {
		width := measureWidth(face, line)
		if width > maxWidth && strings.Contains(line, " ") {
			t.Errorf("line %q is %dpx wide, exceeds %dpx and is not a single word", line, width, maxWidth)
		}
	}

	// No words lost or reordered.
	if got, want := strings.Join(lines, " "), strings.Join(strings.Fields(text), " "); got != want {
		t.Errorf("rejoined lines = %q, want %q", got, want)
	}
}

func TestWrapSingleLongWord(t *testing.T) {
	face := basicfont.Face7x13
	word := strings.Repeat("x", 60)

	lines := Wrap(word, face, 100)
	if len(lines) != 1 {
		t.Fatalf("Wrap(long word) = %d lines, want exactly 1", len(lines))
	}
	if lines[0] != word {
		t.Errorf("line = %q, want the unsplit word", lines[0])
	}
	// The singleton may exceed the max width; it must not be truncated.
	if measureWidth(face, lines[0]) <= 100 {
		t.Errorf("test word should exceed the max width to exercise the singleton rule")
	}
}

func TestWrapLongWordBetweenOthers(t *testing.T) {
	face := basicfont.Face7x13
	long := strings.Repeat("y", 40)
	text := "short " + long + " tail"

	lines := Wrap(text, face, 80)
	found := false
	for _, line := range lines {
		if line == long {
			found = true
		}
	}
	if !found {
		t.Errorf("overlong word not emitted on its own line: %v", lines)
	}
}

func TestWrapEmpty(t *testing.T) {
	if lines := Wrap("", basicfont.Face7x13, 100); lines != nil {
		t.Errorf("Wrap(\"\") = %v, want nil", lines)
	}
	if lines := Wrap("   ", basicfont.Face7x13, 100); lines != nil {
		t.Errorf("Wrap(whitespace) = %v, want nil", lines)
	}
}

func TestWrapDeterministic(t *testing.T) {
	face := basicfont.Face7x13
	text := "Kilowatt-Hour (kWh) vs. Megawatt-Hour (MWh)"

	first := Wrap(text, face, 200)
	for i := 0; i < 3; i++ {
		if got := Wrap(text, face, 200); !reflect.DeepEqual(got, first) {
			t.Fatalf("Wrap run %d = %v, want %v", i, got, first)
		}
	}
}

func TestWrapFitsOnOneLine(t *testing.T) {
	face := basicfont.Face7x13
	lines := Wrap("short title", face, 10000)
	if len(lines) != 1 || lines[0] != "short title" {
		t.Errorf("Wrap(short) = %v, want single line", lines)
	}
}
