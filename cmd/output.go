package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/mattn/go-runewidth"
)

// maxColumnWidth keeps a single long title from stretching the table.
const maxColumnWidth = 40

// column is one field of a table row.
type column[T any] struct {
	header string
	value  func(T) string
}

// printItems writes items as a table, or once per item through tmpl when
// a template is given.
func printItems[T any](w io.Writer, tmpl string, items []T, columns []column[T]) error {
	if tmpl != "" {
		t, err := parseTemplate(tmpl)
		if err != nil {
			return err
		}
		for _, item := range items {
			line, err := execTemplate(t, item)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	rows := make([][]string, 0, len(items)+1)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.header
	}
	rows = append(rows, header)
	for _, item := range items {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = c.value(item)
		}
		rows = append(rows, row)
	}
	return printTable(w, rows)
}

// printItem writes a single result as "key: value" lines, or through tmpl.
func printItem[T any](w io.Writer, tmpl string, item T, fields []column[T]) error {
	if tmpl != "" {
		return printItems(w, tmpl, []T{item}, fields)
	}

	width := 0
	for _, f := range fields {
		width = max(width, runewidth.StringWidth(f.header))
	}
	for _, f := range fields {
		v := f.value(item)
		if v == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", padToWidth(f.header+":", width+1), v); err != nil {
			return err
		}
	}
	return nil
}

// printTable aligns rows into columns measured in display width. The last
// column is never padded.
func printTable(w io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = min(max(widths[i], runewidth.StringWidth(cell)), maxColumnWidth)
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
			} else {
				cells[i] = padToWidth(cell, widths[i])
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}

var templateFuncs = template.FuncMap{
	"pad":  padToWidth,
	"join": strings.Join,
	"ago": func(unix int64) string {
		if unix == 0 {
			return ""
		}
		return time.Since(time.Unix(unix, 0)).Round(time.Minute).String()
	},
}

func parseTemplate(templateStr string) (*template.Template, error) {
	t, err := template.New("output").Funcs(templateFuncs).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return t, nil
}

func execTemplate(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)
	if currentWidth <= width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	const ellipsis = "..."
	if width <= len(ellipsis) {
		return runewidth.Truncate(ellipsis, width, "")
	}

	// Truncate may stop short of the target when a wide rune does not fit.
	result := runewidth.Truncate(text, width-len(ellipsis), "") + ellipsis
	return runewidth.FillRight(result, width)
}

func number(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func artistName(a *lastfm.Artist) string {
	if a == nil {
		return ""
	}
	return a.Name
}

func albumName(a *lastfm.Album) string {
	if a == nil {
		return ""
	}
	return a.Name
}

func tagNames(tags []lastfm.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func artistNames(artists []lastfm.Artist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// playedAt renders a listening-history timestamp.
func playedAt(t lastfm.Track) string {
	if t.NowPlaying {
		return "now playing"
	}
	if t.Timestamp == 0 {
		return ""
	}
	return time.Unix(t.Timestamp, 0).Local().Format("2006-01-02 15:04")
}

func trackLength(t lastfm.Track) string {
	if t.Duration <= 0 {
		return ""
	}
	// track.getInfo reports milliseconds, listings report seconds.
	d := time.Duration(t.Duration) * time.Second
	if t.Duration > 10000 {
		d = time.Duration(t.Duration) * time.Millisecond
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

var artistColumns = []column[lastfm.Artist]{
	{"#", func(a lastfm.Artist) string { return number(a.Rank) }},
	{"ARTIST", func(a lastfm.Artist) string { return a.Name }},
	{"PLAYS", func(a lastfm.Artist) string { return number(a.Playcount) }},
	{"LISTENERS", func(a lastfm.Artist) string { return number(a.Listeners) }},
}

var trackColumns = []column[lastfm.Track]{
	{"#", func(t lastfm.Track) string { return number(t.Rank) }},
	{"TRACK", func(t lastfm.Track) string { return t.Name }},
	{"ARTIST", func(t lastfm.Track) string { return artistName(t.Artist) }},
	{"PLAYS", func(t lastfm.Track) string { return number(t.Playcount) }},
	{"LISTENERS", func(t lastfm.Track) string { return number(t.Listeners) }},
}

var recentColumns = []column[lastfm.Track]{
	{"WHEN", playedAt},
	{"TRACK", func(t lastfm.Track) string { return t.Name }},
	{"ARTIST", func(t lastfm.Track) string { return artistName(t.Artist) }},
	{"ALBUM", func(t lastfm.Track) string { return albumName(t.Album) }},
}

var albumColumns = []column[lastfm.Album]{
	{"#", func(a lastfm.Album) string { return number(a.Rank) }},
	{"ALBUM", func(a lastfm.Album) string { return a.Name }},
	{"ARTIST", func(a lastfm.Album) string { return artistName(a.Artist) }},
	{"PLAYS", func(a lastfm.Album) string { return number(a.Playcount) }},
}

var tagColumns = []column[lastfm.Tag]{
	{"TAG", func(t lastfm.Tag) string { return t.Name }},
	{"COUNT", func(t lastfm.Tag) string { return number(t.Count) }},
	{"REACH", func(t lastfm.Tag) string { return number(t.Reach) }},
}

var userColumns = []column[lastfm.User]{
	{"USER", func(u lastfm.User) string { return u.Name }},
	{"NAME", func(u lastfm.User) string { return u.RealName }},
	{"COUNTRY", func(u lastfm.User) string { return u.Country }},
	{"PLAYS", func(u lastfm.User) string { return number(u.Playcount) }},
}

var chartColumns = []column[lastfm.Chart]{
	{"FROM", func(c lastfm.Chart) string { return c.FromDate }},
	{"TO", func(c lastfm.Chart) string { return c.ToDate }},
}
