package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/mattn/go-runewidth"
)

func TestPadToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "no padding when width is 0",
			input:    "Hello",
			width:    0,
			expected: "Hello",
		},
		{
			name:     "no padding when width is negative",
			input:    "Hello",
			width:    -1,
			expected: "Hello",
		},
		{
			name:     "pad short text with spaces",
			input:    "Hi",
			width:    10,
			expected: "Hi        ",
		},
		{
			name:     "exact width unchanged",
			input:    "Hello",
			width:    5,
			expected: "Hello",
		},
		{
			name:     "truncate long text with ellipsis",
			input:    "This is a very long string that needs truncation",
			width:    20,
			expected: "This is a very lo...",
		},
		{
			name:     "handle emoji correctly",
			input:    "🎵 Music",
			width:    15,
			expected: "🎵 Music       ", // emoji is 2 columns wide
		},
		{
			name:     "truncate emoji text",
			input:    "🎵 This is a very long song title",
			width:    15,
			expected: "🎵 This is a...",
		},
		{
			name:     "handle unicode characters",
			input:    "日本語",
			width:    10,
			expected: "日本語    ",
		},
		{
			name:     "truncate unicode text",
			input:    "日本語とても長いテキスト",
			width:    10,
			expected: "日本語... ", // a wide rune does not fit the 7th column
		},
		{
			name:     "empty string padding",
			input:    "",
			width:    5,
			expected: "     ",
		},
		{
			name:     "minimum width for truncation",
			input:    "Hello",
			width:    3,
			expected: "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := padToWidth(tt.input, tt.width)
			if result != tt.expected {
				t.Errorf("padToWidth(%q, %d) = %q, expected %q",
					tt.input, tt.width, result, tt.expected)
			}

			if tt.width > 0 {
				resultWidth := runewidth.StringWidth(result)
				if resultWidth != tt.width {
					t.Errorf("padToWidth(%q, %d) produced width %d, expected %d",
						tt.input, tt.width, resultWidth, tt.width)
				}
			}
		})
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	err := printTable(&buf, [][]string{
		{"#", "TRACK", "ARTIST"},
		{"1", "Airbag", "Radiohead"},
		{"10", "Paranoid Android", "Radiohead"},
	})
	if err != nil {
		t.Fatalf("printTable failed: %v", err)
	}

	expected := "#   TRACK" + strings.Repeat(" ", 13) + "ARTIST\n" +
		"1   Airbag" + strings.Repeat(" ", 12) + "Radiohead\n" +
		"10  Paranoid Android  Radiohead\n"
	if buf.String() != expected {
		t.Errorf("unexpected table:\n%q\nexpected:\n%q", buf.String(), expected)
	}
}

func TestPrintTable_Truncates(t *testing.T) {
	long := strings.Repeat("x", 60)

	var buf bytes.Buffer
	if err := printTable(&buf, [][]string{{long, long}}); err != nil {
		t.Fatalf("printTable failed: %v", err)
	}

	cells := strings.SplitN(strings.TrimSuffix(buf.String(), "\n"), "  ", 2)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %q", buf.String())
	}
	if w := runewidth.StringWidth(cells[0]); w != maxColumnWidth {
		t.Errorf("expected first column width %d, got %d", maxColumnWidth, w)
	}
	if !strings.HasSuffix(cells[0], "...") {
		t.Errorf("expected truncated first column, got %q", cells[0])
	}
	if cells[1] != long {
		t.Errorf("last column should not be truncated, got %q", cells[1])
	}
}

func TestPrintItems(t *testing.T) {
	artists := []lastfm.Artist{
		{Name: "Radiohead", Playcount: 1200, Rank: 1},
		{Name: "Muse", Playcount: 800, Rank: 2},
	}

	tests := []struct {
		name     string
		tmpl     string
		expected string
	}{
		{
			name:     "table",
			expected: "#  ARTIST     PLAYS  LISTENERS\n1  Radiohead  1200\n2  Muse       800\n",
		},
		{
			name:     "template",
			tmpl:     "{{.Name}} ({{.Playcount}})",
			expected: "Radiohead (1200)\nMuse (800)\n",
		},
		{
			name:     "template with pad",
			tmpl:     "{{pad .Name 6}}|",
			expected: "Rad...|\nMuse  |\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printItems(&buf, tt.tmpl, artists, artistColumns); err != nil {
				t.Fatalf("printItems failed: %v", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("got:\n%q\nexpected:\n%q", buf.String(), tt.expected)
			}
		})
	}
}

func TestPrintItems_InvalidTemplate(t *testing.T) {
	var buf bytes.Buffer
	err := printItems(&buf, "{{.Name", []lastfm.Artist{{Name: "Muse"}}, artistColumns)
	if err == nil || !strings.Contains(err.Error(), "invalid template") {
		t.Fatalf("expected invalid template error, got %v", err)
	}

	err = printItems(&buf, "{{.Missing}}", []lastfm.Artist{{Name: "Muse"}}, artistColumns)
	if err == nil || !strings.Contains(err.Error(), "template execution failed") {
		t.Fatalf("expected execution error, got %v", err)
	}
}

func TestPrintItem(t *testing.T) {
	artist := lastfm.Artist{Name: "Muse", Listeners: 10}
	fields := []column[lastfm.Artist]{
		{"Name", func(a lastfm.Artist) string { return a.Name }},
		{"Plays", func(a lastfm.Artist) string { return number(a.Playcount) }},
		{"Listeners", func(a lastfm.Artist) string { return number(a.Listeners) }},
	}

	var buf bytes.Buffer
	if err := printItem(&buf, "", artist, fields); err != nil {
		t.Fatalf("printItem failed: %v", err)
	}

	// Empty values are skipped and keys are aligned.
	expected := "Name:       Muse\nListeners:  10\n"
	if buf.String() != expected {
		t.Errorf("got:\n%q\nexpected:\n%q", buf.String(), expected)
	}
}

func TestTrackLength(t *testing.T) {
	tests := []struct {
		duration int
		expected string
	}{
		{0, ""},
		{245, "4:05"},
		{245000, "4:05"},
		{3725, "62:05"},
	}

	for _, tt := range tests {
		if got := trackLength(lastfm.Track{Duration: tt.duration}); got != tt.expected {
			t.Errorf("trackLength(%d) = %q, expected %q", tt.duration, got, tt.expected)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{input: "", expected: time.Time{}},
		{input: "1700000000", expected: time.Unix(1700000000, 0)},
		{input: "2024-03-01T12:30:00Z", expected: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
		{input: "2024-03-01 12:30", expected: time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)},
		{input: "2024-03-01", expected: time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)},
		{input: "2024-03", wantErr: true},
		{input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTime(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("parseTime(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}
