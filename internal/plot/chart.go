package plot

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const defaultDotWidth = 3

// ChartHost renders scatter graphs to PNG with go-chart.
type ChartHost struct {
	Width    int
	Height   int
	DotWidth float64
}

// NewChartHost returns a host producing width x height images.
func NewChartHost(width, height int) *ChartHost {
	return &ChartHost{Width: width, Height: height, DotWidth: defaultDotWidth}
}

// Open starts a rendering session.
func (h *ChartHost) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &chartSession{host: h}, nil
}

type chartSession struct {
	host *ChartHost

	mu     sync.Mutex
	closed bool
}

func (s *chartSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *chartSession) Render(ctx context.Context, r *Report, g Graph) (Artifact, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return Artifact{}, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	graph, err := s.build(r, g)
	if err != nil {
		return Artifact{}, err
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return Artifact{}, fmt.Errorf("render %s: %w", g.Name, err)
	}
	return Artifact{Name: g.Name, PNG: buf.Bytes()}, nil
}

func (s *chartSession) build(r *Report, g Graph) (*chart.Chart, error) {
	dot := s.host.DotWidth
	if dot <= 0 {
		dot = defaultDotWidth
	}

	var (
		series    []chart.Series
		xb, yb    bounds
		hasLegend bool
	)
	for i, sr := range g.Series {
		xs, ys, err := points(r, sr)
		if err != nil {
			return nil, fmt.Errorf("graph %s: %w", g.Name, err)
		}
		if len(xs) == 0 {
			continue
		}
		xb.add(xs...)
		yb.add(ys...)

		color := seriesColor(sr.Color, i)
		series = append(series, chart.ContinuousSeries{
			Name:    sr.Legend,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    dot,
				DotColor:    color,
				StrokeColor: color,
			},
		})
		hasLegend = hasLegend || sr.Legend != ""
	}

	if len(series) == 0 {
		// nothing to draw; keep axes renderable
		series = append(series, chart.ContinuousSeries{
			Style:   chart.Hidden(),
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
		})
		xb.add(0, 1)
		yb.add(0, 1)
		hasLegend = false
	}

	xr, yr := xb.rng(), yb.rng()
	if len(g.Text) > 0 {
		series = append(series, chart.AnnotationSeries{
			Annotations: []chart.Value2{{
				XValue: xr.Min,
				YValue: yr.Max,
				Label:  strings.Join(g.Text, " | "),
			}},
		})
	}

	graph := &chart.Chart{
		Title:  g.Name,
		Width:  s.host.Width,
		Height: s.host.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: g.XLabel, Range: xr},
		YAxis:  chart.YAxis{Name: g.YLabel, Range: yr},
		Series: series,
	}
	if hasLegend {
		graph.Elements = []chart.Renderable{chart.Legend(graph)}
	}
	return graph, nil
}

// points extracts the finite (x, y) pairs of one series.
func points(r *Report, sr Series) ([]float64, []float64, error) {
	sh, err := r.Sheet(sr.Book, sr.Sheet)
	if err != nil {
		return nil, nil, err
	}
	xc, err := sh.Table.Col(sr.X)
	if err != nil {
		return nil, nil, err
	}
	yc, err := sh.Table.Col(sr.Y)
	if err != nil {
		return nil, nil, err
	}

	xs := make([]float64, 0, sh.Table.Len())
	ys := make([]float64, 0, sh.Table.Len())
	for i := 0; i < sh.Table.Len(); i++ {
		x, y := sh.Table.At(i, xc), sh.Table.At(i, yc)
		if !finite(x) || !finite(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

func seriesColor(name string, i int) drawing.Color {
	switch name {
	case Blue:
		return chart.ColorBlue
	case Red:
		return chart.ColorRed
	default:
		return chart.GetDefaultColor(i)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// bounds tracks the extent of plotted values.
type bounds struct {
	min, max float64
	set      bool
}

func (b *bounds) add(vs ...float64) {
	for _, v := range vs {
		if !b.set {
			b.min, b.max, b.set = v, v, true
			continue
		}
		b.min = math.Min(b.min, v)
		b.max = math.Max(b.max, v)
	}
}

// rangeMargin is the share of the span added on each side of the axis.
const rangeMargin = 0.02

// rng returns an explicit axis range with a small margin around the data; a
// single value is widened so the axis never has zero span.
func (b *bounds) rng() *chart.ContinuousRange {
	lo, hi := b.min, b.max
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.05, 1)
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	pad := (hi - lo) * rangeMargin
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
