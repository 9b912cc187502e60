// Package plot describes what a workflow hands to the rendering collaborator
// and provides a PNG renderer built on go-chart.
//
// A [Report] holds workbooks of named sheets and the graphs drawn from them.
// Series reference sheet columns by name, so the same sheet can feed several
// graphs. Rendering happens inside a [Session] obtained from a [Host]; the
// caller releases it on every path:
//
//	sess, err := host.Open(ctx)
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
package plot

import (
	"fmt"

	"github.com/JonMunkholm/labplot/internal/ingest"
)

// Named series colors. An empty color picks from the palette by series index.
const (
	Blue = "blue"
	Red  = "red"
)

// Sheet is one table inside a workbook.
type Sheet struct {
	Name  string
	Table *ingest.Table
}

// Book is a named collection of sheets.
type Book struct {
	Name   string
	Sheets []Sheet
}

// Series plots column Y against column X of one sheet.
type Series struct {
	Book   string
	Sheet  string
	X, Y   string
	Legend string
	Color  string
}

// Graph is a scatter plot of one or more series.
type Graph struct {
	Name   string // artifact name, unique within a report
	XLabel string
	YLabel string
	Text   []string // annotation lines drawn inside the plot area
	Series []Series
}

// Report is everything one workflow run produced.
type Report struct {
	Workflow string
	Deck     string // slide bundle name without extension
	Books    []Book
	Graphs   []Graph
}

// AddBook appends a workbook and returns its index.
func (r *Report) AddBook(name string) int {
	r.Books = append(r.Books, Book{Name: name})
	return len(r.Books) - 1
}

// AddSheet appends a sheet to the book at index b. A name already taken in
// that book gets a numeric suffix ("Data", "Data_2", ...); series must use
// the returned sheet's name.
func (r *Report) AddSheet(b int, name string, t *ingest.Table) Sheet {
	book := &r.Books[b]
	unique := name
	for n := 2; book.has(unique); n++ {
		unique = fmt.Sprintf("%s_%d", name, n)
	}
	s := Sheet{Name: unique, Table: t}
	book.Sheets = append(book.Sheets, s)
	return s
}

func (b *Book) has(sheet string) bool {
	for _, s := range b.Sheets {
		if s.Name == sheet {
			return true
		}
	}
	return false
}

// Sheet finds a sheet by book and sheet name.
func (r *Report) Sheet(book, sheet string) (Sheet, error) {
	for _, b := range r.Books {
		if b.Name != book {
			continue
		}
		for _, s := range b.Sheets {
			if s.Name == sheet {
				return s, nil
			}
		}
	}
	return Sheet{}, fmt.Errorf("sheet %s/%s not found", book, sheet)
}

// Rows returns the total number of rows across all sheets.
func (r *Report) Rows() int {
	n := 0
	for _, b := range r.Books {
		for _, s := range b.Sheets {
			n += s.Table.Len()
		}
	}
	return n
}

// Validate checks that sheet names are unique within each book and that
// every series resolves to existing sheet columns.
func (r *Report) Validate() error {
	for _, b := range r.Books {
		names := make(map[string]bool, len(b.Sheets))
		for _, s := range b.Sheets {
			if names[s.Name] {
				return fmt.Errorf("book %s: duplicate sheet name %q", b.Name, s.Name)
			}
			names[s.Name] = true
		}
	}

	seen := make(map[string]bool, len(r.Graphs))
	for _, g := range r.Graphs {
		if seen[g.Name] {
			return fmt.Errorf("duplicate graph name %q", g.Name)
		}
		seen[g.Name] = true
		for _, s := range g.Series {
			sh, err := r.Sheet(s.Book, s.Sheet)
			if err != nil {
				return fmt.Errorf("graph %s: %w", g.Name, err)
			}
			if _, err := sh.Table.Col(s.X); err != nil {
				return fmt.Errorf("graph %s: %w", g.Name, err)
			}
			if _, err := sh.Table.Col(s.Y); err != nil {
				return fmt.Errorf("graph %s: %w", g.Name, err)
			}
		}
	}
	return nil
}
