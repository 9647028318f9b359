package sentence

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const sample = Header + "\n" +
	"1\t今日は暑いです。\tIt's hot today.\t001.mp3\t1\n" +
	"2\t水をください。\tWater, please.\t002.mp3\t1\n" +
	"3\t駅はどこですか。\tWhere is the station?\t003.mp3\t2\n"

func TestParse(t *testing.T) {
	got := Parse(sample)
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d", len(got))
	}

	want := Sentence{No: 3, Japanese: "駅はどこですか。", English: "Where is the station?", Audio: "003.mp3", Section: 2}
	if got[2] != want {
		t.Errorf("unexpected third sentence: %+v", got[2])
	}
	for _, s := range got {
		if s.Malformed {
			t.Errorf("sentence %d should not be malformed", s.No)
		}
	}
}

func TestParseLineCount(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"empty", "", 0},
		{"header only", Header, 0},
		{"header with trailing newline", Header + "\n", 0},
		{"one row", Header + "\n1\ta\tb\tc.mp3\t1", 1},
		{"crlf rows", Header + "\r\n1\ta\tb\tc.mp3\t1\r\n2\ta\tb\tc.mp3\t2\r\n", 2},
		{"surrounding whitespace", "\n\n" + sample + "\n\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.data); len(got) != tt.want {
				t.Errorf("Parse() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseCoercion(t *testing.T) {
	tests := []struct {
		line      string
		no        int
		section   int
		malformed bool
	}{
		{"12\tj\te\ta.mp3\t4", 12, 4, false},
		{" 7\tj\te\ta.mp3\t 3", 7, 3, false},
		{"8x\tj\te\ta.mp3\t2abc", 8, 2, false},
		{"-5\tj\te\ta.mp3\t+1", -5, 1, false},
		{"abc\tj\te\ta.mp3\t1", 0, 1, true},
		{"9\tj\te\ta.mp3\tnone", 9, 0, true},
		{"10\tj\te", 10, 0, true},
		{"99999999999999999999999\tj\te\ta.mp3\t1", 0, 1, true},
		{"3\tj\te\ta.mp3\t-99999999999999999999", 3, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Parse(Header + "\n" + tt.line)
			if len(got) != 1 {
				t.Fatalf("expected 1 record, got %d", len(got))
			}
			s := got[0]
			if s.No != tt.no || s.Section != tt.section || s.Malformed != tt.malformed {
				t.Errorf("got no=%d section=%d malformed=%v, want no=%d section=%d malformed=%v",
					s.No, s.Section, s.Malformed, tt.no, tt.section, tt.malformed)
			}
		})
	}
}

func TestParseIntBounds(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"9223372036854775807", math.MaxInt, true},
		{"-9223372036854775807", -math.MaxInt, true},
		{"9223372036854775808", 0, false},
		{"12345678901234567890123", 0, false},
	}
	if strconv.IntSize != 64 {
		t.Skip("bounds assume 64-bit int")
	}
	for _, tt := range tests {
		n, ok := parseInt(tt.in)
		if n != tt.want || ok != tt.ok {
			t.Errorf("parseInt(%q) = %d, %v; want %d, %v", tt.in, n, ok, tt.want, tt.ok)
		}
	}
}

func TestParseCRLFKeepsText(t *testing.T) {
	got := Parse(Header + "\r\n1\tこんにちは\tHello\ta.mp3\t1\r\n")
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Section != 1 || strings.Contains(got[0].Audio, "\r") {
		t.Errorf("unexpected record: %+v", got[0])
	}
}

func TestSectionStats(t *testing.T) {
	sentences := Parse(sample)
	stats := SectionStats(sentences)

	if len(stats) != 2 || stats[1] != 2 || stats[2] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}

	total := 0
	for _, n := range stats {
		total += n
	}
	if total != len(sentences) {
		t.Errorf("stats sum to %d, want %d", total, len(sentences))
	}

	if got := SectionStats(nil); len(got) != 0 {
		t.Errorf("expected empty stats, got %v", got)
	}
}

func TestSections(t *testing.T) {
	sentences := []Sentence{{No: 1, Section: 5}, {No: 2, Section: 2}, {No: 3, Section: 5}, {No: 4, Section: 1}}
	got := Sections(sentences)
	want := []int{1, 2, 5}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Sections() = %v, want %v", got, want)
	}
}

func TestAudioPath(t *testing.T) {
	s := Sentence{Audio: "lesson1/001.mp3"}
	got := AudioPath("/data/audio", s)
	if got != filepath.Join("/data/audio", "lesson1", "001.mp3") {
		t.Errorf("unexpected path: %s", got)
	}
}

func TestLookup(t *testing.T) {
	m := Lookup(Parse(sample))
	if len(m) != 3 || m[2].English != "Water, please." {
		t.Errorf("unexpected lookup: %v", m)
	}
}

func TestFind(t *testing.T) {
	sentences := Parse(sample)

	matches := Find(sentences, "station")
	if len(matches) == 0 {
		t.Fatal("expected a match for 'station'")
	}
	if matches[0].Sentence.No != 3 {
		t.Errorf("expected sentence 3 first, got %d", matches[0].Sentence.No)
	}

	if got := Find(sentences, ""); got != nil {
		t.Errorf("empty query should return no matches, got %v", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentences.tsv")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 sentences, got %d", len(got))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.tsv"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sentences.tsv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	got, err := Load(context.Background(), srv.URL+"/sentences.tsv")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 sentences, got %d", len(got))
	}

	if _, err := Load(context.Background(), srv.URL+"/missing.tsv"); err == nil {
		t.Error("expected error for 404")
	}
}
