package ingest

import (
	"io"
	"strings"
)

const (
	sniffSize  = 1024
	dataMarker = "[Data]"
)

// DetectDelimiter inspects the first 1024 bytes of src. A comma wins over a
// tab; when neither occurs the comma is assumed. src is rewound to offset 0.
func DetectDelimiter(src io.ReadSeeker) rune {
	defer src.Seek(0, io.SeekStart)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return ','
	}
	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(src, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return ','
	}
	sample := decodePermissive(buf[:n])

	switch {
	case strings.ContainsRune(sample, ','):
		return ','
	case strings.ContainsRune(sample, '\t'):
		return '\t'
	default:
		return ','
	}
}

// DetectHeaderOffset returns the number of lines to skip before the header
// row. A concrete HeaderSkip is returned unchanged. With AutoDetect, the line
// index after the first line containing "[Data]" is returned, or 0 when no
// line carries the marker. src is rewound to offset 0.
func DetectHeaderOffset(src io.ReadSeeker, p InstrumentProfile) int {
	if p.HeaderSkip >= 0 {
		return p.HeaderSkip
	}
	defer src.Seek(0, io.SeekStart)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return 0
	}
	text, _ := decode(raw)
	for i, line := range splitLines(text) {
		if strings.Contains(line, dataMarker) {
			return i + 1
		}
	}
	return 0
}
