package markdown

import "strings"

// Segment is a run of a single line that is either prose or an inline code span.
type Segment struct {
	Text string
	Code bool
}

// SplitCodeSpans splits line into prose and code span segments. A span is
// closed by a backtick run of the same length; an unclosed run is prose.
func SplitCodeSpans(line string) []Segment {
	if !strings.Contains(line, "`") {
		return []Segment{{Text: line}}
	}

	out := make([]Segment, 0, 3)
	var prose strings.Builder
	flush := func() {
		if prose.Len() > 0 {
			out = append(out, Segment{Text: prose.String()})
			prose.Reset()
		}
	}

	for i := 0; i < len(line); {
		if line[i] != '`' {
			prose.WriteByte(line[i])
			i++
			continue
		}

		run := 1
		for i+run < len(line) && line[i+run] == '`' {
			run++
		}
		closeRel := findRun(line[i+run:], run)
		if closeRel == -1 {
			prose.WriteString(line[i : i+run])
			i += run
			continue
		}

		flush()
		end := i + run + closeRel + run
		out = append(out, Segment{Text: line[i:end], Code: true})
		i = end
	}
	flush()
	return out
}

// findRun returns the index of the first backtick run of exactly n in s, or -1.
func findRun(s string, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '`' {
			j++
		}
		if j-i == n {
			return i
		}
		i = j
	}
	return -1
}

// StripInlineCodeSpans removes code spans, delimiters included, from line.
func StripInlineCodeSpans(line string) string {
	var b strings.Builder
	for _, seg := range SplitCodeSpans(line) {
		if !seg.Code {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
