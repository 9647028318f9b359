package sentence

import (
	"math"
	"path/filepath"
	"strings"
)

// Header is the column layout of a sentence file.
const Header = "no\tjapanese\tenglish\taudio\tsection"

// Sentence is one drill item. It is never modified after loading.
type Sentence struct {
	No       int
	Japanese string
	English  string
	Audio    string
	Section  int

	// Malformed is set when no or section did not parse as an integer, or
	// the row had fewer columns than the header. The record is kept as is.
	Malformed bool
}

// Parse turns the contents of a sentence file into records. The first line is
// the header and is discarded; every other line yields exactly one record.
func Parse(data string) []Sentence {
	lines := strings.Split(strings.TrimSpace(data), "\n")
	if len(lines) <= 1 {
		return []Sentence{}
	}

	out := make([]Sentence, 0, len(lines)-1)
	for _, line := range lines[1:] {
		out = append(out, parseLine(strings.TrimSuffix(line, "\r")))
	}
	return out
}

func parseLine(line string) Sentence {
	fields := strings.Split(line, "\t")
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	no, okNo := parseInt(field(0))
	section, okSection := parseInt(field(4))
	return Sentence{
		No:        no,
		Japanese:  field(1),
		English:   field(2),
		Audio:     field(3),
		Section:   section,
		Malformed: !okNo || !okSection || len(fields) < 5,
	}
}

// parseInt reads a base-10 integer prefix the way a browser's parseInt does:
// leading whitespace and an optional sign are skipped, parsing stops at the
// first non-digit. ok is false when no digit was found or the value does not
// fit in an int, in which case n is 0.
func parseInt(s string) (n int, ok bool) {
	s = strings.TrimLeft(s, " \t\r\n\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		d := int(r - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
		ok = true
	}
	if neg {
		n = -n
	}
	return n, ok
}

// AudioPath resolves the sentence's clip against the audio directory.
func AudioPath(dir string, s Sentence) string {
	if filepath.IsAbs(s.Audio) {
		return s.Audio
	}
	return filepath.Join(dir, filepath.FromSlash(s.Audio))
}

// Lookup indexes sentences by number. Later duplicates win.
func Lookup(sentences []Sentence) map[int]Sentence {
	m := make(map[int]Sentence, len(sentences))
	for _, s := range sentences {
		m[s.No] = s
	}
	return m
}
