package markdown

import "strings"

// Fence tracks fenced code block state across consecutive lines.
// A block opens with three or more backticks or tildes and closes on a line
// made of the same character repeated at least as many times.
type Fence struct {
	char   byte
	length int
	open   bool
}

// Open reports whether the tracker is inside a fenced block.
func (f *Fence) Open() bool { return f.open }

// Feed advances the tracker by one line and reports whether that line is part
// of a fenced block, delimiters included.
func (f *Fence) Feed(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if f.open {
		if c, n := fenceRun(trimmed); c == f.char && n >= f.length && strings.TrimSpace(trimmed[n:]) == "" {
			f.open = false
		}
		return true
	}
	c, n := fenceRun(trimmed)
	if n < 3 {
		return false
	}
	if c == '`' && strings.Contains(trimmed[n:], "`") {
		return false
	}
	f.char, f.length, f.open = c, n, true
	return true
}

func fenceRun(s string) (byte, int) {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return 0, 0
	}
	c := s[0]
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return c, n
}
