package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the deckflow ASCII banner to w.
// Colors are only emitted when w is a terminal.
func PrintBanner(w io.Writer) {
	p := termenv.Ascii
	if IsTerminal(w) {
		p = termenv.ColorProfile()
	}

	lines := []struct {
		text  string
		color string
	}{
		{"     _           _     __ _               ", "#818cf8"},
		{"  __| | ___  ___| | __/ _| | _____      __", "#a78bfa"},
		{" / _` |/ _ \\/ __| |/ / |_| |/ _ \\ \\ /\\ / /", "#c084fc"},
		{"| (_| |  __/ (__|   <|  _| | (_) \\ V  V / ", "#e879f9"},
		{" \\__,_|\\___|\\___|_|\\_\\_| |_|\\___/ \\_/\\_/  ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
