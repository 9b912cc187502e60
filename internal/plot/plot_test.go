package plot

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/labplot/internal/ingest"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	cool, err := ingest.NewTable([]string{"Temperature", "R1"}, [][]float64{{300, 10}, {200, 8}, {100, 5}, {2, math.NaN()}})
	require.NoError(t, err)
	warm, err := ingest.NewTable([]string{"Temperature", "R1"}, [][]float64{{5, 5.5}, {150, 7}, {290, 9.9}})
	require.NoError(t, err)

	r := &Report{Workflow: "test", Deck: "Test"}
	c := r.AddBook("CoolingData")
	r.AddSheet(c, "Sheet1", cool)
	w := r.AddBook("WarmingData")
	r.AddSheet(w, "Sheet1", warm)

	r.Graphs = append(r.Graphs, Graph{
		Name:   "Ch1",
		XLabel: "T (K)",
		YLabel: "R (Ohm)",
		Text:   []string{"2026-01-02", "Ch. 1"},
		Series: []Series{
			{Book: "CoolingData", Sheet: "Sheet1", X: "Temperature", Y: "R1", Legend: "Cooling", Color: Blue},
			{Book: "WarmingData", Sheet: "Sheet1", X: "Temperature", Y: "R1", Legend: "Warming", Color: Red},
		},
	})
	return r
}

func TestReport_Lookup(t *testing.T) {
	r := sampleReport(t)

	s, err := r.Sheet("WarmingData", "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Table.Len())

	_, err = r.Sheet("WarmingData", "Sheet2")
	assert.Error(t, err)

	assert.Equal(t, 7, r.Rows())
	assert.NoError(t, r.Validate())
}

func TestReport_Validate(t *testing.T) {
	r := sampleReport(t)
	r.Graphs[0].Series[0].Y = "R2"
	assert.Error(t, r.Validate())

	r = sampleReport(t)
	r.Graphs = append(r.Graphs, r.Graphs[0])
	assert.ErrorContains(t, r.Validate(), "duplicate graph name")

	r = sampleReport(t)
	r.Books[0].Sheets = append(r.Books[0].Sheets, r.Books[0].Sheets[0])
	assert.ErrorContains(t, r.Validate(), "duplicate sheet name")
}

func TestReport_AddSheetRenamesDuplicates(t *testing.T) {
	first, err := ingest.NewTable([]string{"Temperature", "R1"}, [][]float64{{2, 1}})
	require.NoError(t, err)
	second, err := ingest.NewTable([]string{"Temperature", "R1"}, [][]float64{{3, 99}})
	require.NoError(t, err)

	r := &Report{}
	b := r.AddBook("Fields")
	assert.Equal(t, "A", r.AddSheet(b, "A", first).Name)
	assert.Equal(t, "A_2", r.AddSheet(b, "A", second).Name)
	assert.Equal(t, "A_2_2", r.AddSheet(b, "A_2", first).Name)
	assert.Equal(t, "A_3", r.AddSheet(b, "A", first).Name)

	other := r.AddBook("Other")
	assert.Equal(t, "A", r.AddSheet(other, "A", first).Name)

	s, err := r.Sheet("Fields", "A_2")
	require.NoError(t, err)
	assert.Equal(t, second, s.Table)
	assert.NoError(t, r.Validate())
}

func TestChartSession_Render(t *testing.T) {
	r := sampleReport(t)
	host := NewChartHost(640, 480)

	sess, err := host.Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	art, err := sess.Render(context.Background(), r, r.Graphs[0])
	require.NoError(t, err)
	assert.Equal(t, "Ch1", art.Name)
	assert.True(t, bytes.HasPrefix(art.PNG, pngMagic))
}

func TestChartSession_RenderEmptySeries(t *testing.T) {
	empty, err := ingest.NewTable([]string{"Temperature", "R1"}, nil)
	require.NoError(t, err)

	r := &Report{}
	b := r.AddBook("Data")
	r.AddSheet(b, "Empty", empty)
	g := Graph{Name: "Empty", Series: []Series{{Book: "Data", Sheet: "Empty", X: "Temperature", Y: "R1", Legend: "none"}}}

	sess, err := NewChartHost(320, 240).Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	art, err := sess.Render(context.Background(), r, g)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(art.PNG, pngMagic))
}

func TestChartSession_SinglePoint(t *testing.T) {
	one, err := ingest.NewTable([]string{"T", "Y"}, [][]float64{{4, 4}})
	require.NoError(t, err)

	r := &Report{}
	r.AddSheet(r.AddBook("B"), "S", one)
	g := Graph{Name: "One", Series: []Series{{Book: "B", Sheet: "S", X: "T", Y: "Y"}}}

	sess, err := NewChartHost(320, 240).Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Render(context.Background(), r, g)
	assert.NoError(t, err)
}

func TestChartSession_Closed(t *testing.T) {
	r := sampleReport(t)
	sess, err := NewChartHost(320, 240).Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, sess.Close())

	_, err = sess.Render(context.Background(), r, r.Graphs[0])
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestChartHost_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewChartHost(320, 240).Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChartSession_UnknownSheet(t *testing.T) {
	r := sampleReport(t)
	g := Graph{Name: "Bad", Series: []Series{{Book: "Nope", Sheet: "Sheet1", X: "Temperature", Y: "R1"}}}

	sess, err := NewChartHost(320, 240).Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Render(context.Background(), r, g)
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	var b bounds
	b.add(3, -1, 7)
	r := b.rng()
	assert.InDelta(t, -1.16, r.Min, 1e-9)
	assert.InDelta(t, 7.16, r.Max, 1e-9)

	var flat bounds
	flat.add(100, 100)
	r = flat.rng()
	assert.Less(t, r.Min, 100.0)
	assert.Greater(t, r.Max, 100.0)
}
