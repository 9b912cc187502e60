package ingest

import (
	"io"
	"strings"
	"testing"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rune
	}{
		{"comma only", "a,b,c\n1,2,3\n", ','},
		{"tab only", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"comma beats tab", "a\tb,c\n", ','},
		{"neither", "abc\n123\n", ','},
		{"empty", "", ','},
		{"comma past sample window", strings.Repeat("a\tb\n", 300) + "x,y\n", '\t'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectDelimiter(strings.NewReader(tt.input))
			if got != tt.want {
				t.Errorf("DetectDelimiter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectDelimiter_Rewinds(t *testing.T) {
	src := strings.NewReader("a,b\n1,2\n")
	src.Seek(3, io.SeekStart)

	DetectDelimiter(src)

	rest, _ := io.ReadAll(src)
	if string(rest) != "a,b\n1,2\n" {
		t.Errorf("source not rewound, read %q", rest)
	}
}

func TestDetectDelimiter_InvalidUTF8(t *testing.T) {
	src := strings.NewReader("Temp \xb0C\tR\n1\t2\n")
	if got := DetectDelimiter(src); got != '\t' {
		t.Errorf("DetectDelimiter() = %q, want tab", got)
	}
}

func TestDetectHeaderOffset(t *testing.T) {
	auto := InstrumentProfile{HeaderSkip: AutoDetect}

	tests := []struct {
		name    string
		input   string
		profile InstrumentProfile
		want    int
	}{
		{
			name:    "marker on line 4",
			input:   "[Header]\nTitle,x\nDate,y\nInfo,z\n[Data]\nTime,Temp\n1,2\n",
			profile: auto,
			want:    5,
		},
		{
			name:    "no marker",
			input:   "Time,Temp\n1,2\n",
			profile: auto,
			want:    0,
		},
		{
			name:    "first of several markers",
			input:   "[Data]\na\n[Data]\n",
			profile: auto,
			want:    1,
		},
		{
			name:    "crlf line endings",
			input:   "h1\r\nh2\r\n[Data]\r\nTime,Temp\r\n",
			profile: auto,
			want:    3,
		},
		{
			name:    "concrete skip ignores marker",
			input:   "[Data]\n",
			profile: InstrumentProfile{HeaderSkip: 3},
			want:    3,
		},
		{
			name:    "latin1 content",
			input:   "Temp \xb0C\n[Data]\nT,R\n",
			profile: auto,
			want:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectHeaderOffset(strings.NewReader(tt.input), tt.profile)
			if got != tt.want {
				t.Errorf("DetectHeaderOffset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\r\nb\r\n", 2},
		{"a\rb\rc", 3},
		{"a\n\nb", 3},
	}
	for _, tt := range tests {
		if got := len(splitLines(tt.input)); got != tt.want {
			t.Errorf("splitLines(%q) has %d lines, want %d", tt.input, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	text, enc := decode([]byte("\xEF\xBB\xBFTemp,R\n"))
	if text != "Temp,R\n" || enc != encodingUTF8 {
		t.Errorf("decode(bom) = %q, %q", text, enc)
	}

	text, enc = decode([]byte("Temp \xb0C"))
	if text != "Temp °C" || enc != encodingLatin1 {
		t.Errorf("decode(latin1) = %q, %q", text, enc)
	}
}
