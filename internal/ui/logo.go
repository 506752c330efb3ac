package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type font struct {
	height  int
	gap     int // space between letters
	letters map[rune][]string
}

var fontLarge = font{
	height: 6,
	gap:    0,
	letters: map[rune][]string{
		'O': {
			" ██████╗ ",
			"██╔═══██╗",
			"██║   ██║",
			"██║   ██║",
			"╚██████╔╝",
			" ╚═════╝ ",
		},
		'P': {
			"██████╗ ",
			"██╔══██╗",
			"██████╔╝",
			"██╔═══╝ ",
			"██║     ",
			"╚═╝     ",
		},
		'S': {
			"███████╗",
			"██╔════╝",
			"███████╗",
			"╚════██║",
			"███████║",
			"╚══════╝",
		},
		'I': {
			"██╗",
			"██║",
			"██║",
			"██║",
			"██║",
			"╚═╝",
		},
		'M': {
			"███╗   ███╗",
			"████╗ ████║",
			"██╔████╔██║",
			"██║╚██╔╝██║",
			"██║ ╚═╝ ██║",
			"╚═╝     ╚═╝",
		},
	},
}

var fontMedium = font{
	height: 5,
	gap:    1,
	letters: map[rune][]string{
		'O': {
			"▄███▄",
			"█   █",
			"█   █",
			"█   █",
			"▀███▀",
		},
		'P': {
			"████▄",
			"█   █",
			"████▀",
			"█    ",
			"█    ",
		},
		'S': {
			"▄████",
			"█    ",
			" ███ ",
			"    █",
			"████▀",
		},
		'I': {
			"█",
			"█",
			"█",
			"█",
			"█",
		},
		'M': {
			"█▄ ▄█",
			"██▄██",
			"█ █ █",
			"█   █",
			"█   █",
		},
	},
}

// width is the rendered width of word in f.
func (f font) width(word string) int {
	w := 0
	for i, ch := range []rune(word) {
		if rows := f.letters[ch]; len(rows) > 0 {
			w += lipgloss.Width(rows[0])
		}
		if i > 0 {
			w += f.gap
		}
	}
	return w
}

func (f font) render(word string) string {
	glyphs := make([]string, 0, len(word))
	spacer := strings.Repeat(" ", f.gap)
	for i, ch := range []rune(word) {
		rows := f.letters[ch]
		if len(rows) < f.height {
			rows = append(rows[:len(rows):len(rows)], make([]string, f.height-len(rows))...)
		}
		if i > 0 && f.gap > 0 {
			glyphs = append(glyphs, strings.TrimSuffix(strings.Repeat(spacer+"\n", f.height), "\n"))
		}
		glyphs = append(glyphs, strings.Join(rows, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, glyphs...)
}

const logoWord = "OPSIM"

// renderLogo picks the largest font whose output, plus a one column indent,
// fits maxWidth.
func renderLogo(maxWidth int) string {
	for _, f := range []font{fontLarge, fontMedium} {
		if f.width(logoWord)+1 <= maxWidth {
			return lipgloss.NewStyle().PaddingLeft(1).Render(f.render(logoWord))
		}
	}
	return " " + logoWord
}
