// Package export writes rendered graphs and workbooks to disk.
//
// A slide bundle is a zip of PNG slides named in order ("01_<graph>.png",
// "02_<graph>.png", ...). A project archive is a zip with one CSV file per
// sheet under a directory per workbook. Both are written to a temporary file
// and renamed into place, so a failed export never leaves a partial file.
//
// Before writing, the target is probed: an existing file that cannot be
// opened for writing is reported as [ErrResourceLocked], which callers turn
// into a warning.
package export

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/labplot/internal/ingest"
	"github.com/JonMunkholm/labplot/internal/plot"
)

// ErrResourceLocked means the target file exists but is held by another program.
var ErrResourceLocked = errors.New("resource locked")

// DefaultProjectFile is the archive name used when none is configured.
const DefaultProjectFile = "labplot_project.zip"

// Writer exports into a fixed directory.
type Writer struct {
	Dir         string
	ProjectFile string

	// Probe reports ErrResourceLocked when path cannot be replaced.
	Probe func(path string) error
}

// New returns a Writer for dir using the default lock probe.
func New(dir, projectFile string) *Writer {
	if projectFile == "" {
		projectFile = DefaultProjectFile
	}
	return &Writer{Dir: dir, ProjectFile: projectFile, Probe: ProbeWritable}
}

// ProbeWritable opens an existing path for writing and closes it again.
// A missing file is not locked.
func ProbeWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrResourceLocked, filepath.Base(path))
	}
	return f.Close()
}

// DeckPath returns where WriteDeck puts the bundle called name.
func (w *Writer) DeckPath(name string) string {
	return filepath.Join(w.Dir, safeName(name)+".zip")
}

// ProjectPath returns where SaveProject puts the archive.
func (w *Writer) ProjectPath() string {
	return filepath.Join(w.Dir, w.ProjectFile)
}

// WriteDeck writes slides, in order, to a bundle called name.
func (w *Writer) WriteDeck(name string, slides []plot.Artifact) (string, error) {
	path := w.DeckPath(name)
	err := w.write(path, func(zw *zip.Writer) error {
		for i, s := range slides {
			f, err := zw.Create(fmt.Sprintf("%02d_%s.png", i+1, safeName(s.Name)))
			if err != nil {
				return err
			}
			if _, err := f.Write(s.PNG); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// SaveProject writes every sheet of books to the project archive.
func (w *Writer) SaveProject(books []plot.Book) (string, error) {
	path := w.ProjectPath()
	err := w.write(path, func(zw *zip.Writer) error {
		seen := make(map[string]bool)
		for _, b := range books {
			for _, s := range b.Sheets {
				base := safeName(b.Name) + "/" + safeName(s.Name)
				entry := base
				for n := 2; seen[entry]; n++ {
					entry = fmt.Sprintf("%s_%d", base, n)
				}
				seen[entry] = true
				f, err := zw.Create(entry + ".csv")
				if err != nil {
					return err
				}
				if err := writeCSV(csv.NewWriter(f), s.Table); err != nil {
					return fmt.Errorf("sheet %s: %w", entry, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) write(path string, fill func(*zip.Writer) error) error {
	if w.Probe != nil {
		if err := w.Probe(path); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".labplot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	if err := fill(zw); err != nil {
		zw.Close()
		tmp.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finish archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("%w: %s", ErrResourceLocked, filepath.Base(path))
		}
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}

func writeCSV(cw *csv.Writer, t *ingest.Table) error {
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns()))
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			rec[j] = formatCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var unsafeChars = strings.NewReplacer("/", "_", `\`, "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_")

// safeName makes s usable as a file or archive entry name.
func safeName(s string) string {
	s = strings.TrimSpace(unsafeChars.Replace(s))
	if s == "" || s == "." || s == ".." {
		return "unnamed"
	}
	return s
}
