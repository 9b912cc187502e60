package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/labplot/internal/export"
	"github.com/JonMunkholm/labplot/internal/history"
	"github.com/JonMunkholm/labplot/internal/ingest"
	"github.com/JonMunkholm/labplot/internal/logging"
	"github.com/JonMunkholm/labplot/internal/plot"
)

// MessageOK is the result message of a run without warnings.
const MessageOK = "Processed successfully."

// Exporter writes rendered graphs and workbooks.
type Exporter interface {
	WriteDeck(name string, slides []plot.Artifact) (string, error)
	SaveProject(books []plot.Book) (string, error)
}

// Recorder stores completed runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// File is one uploaded input.
type File struct {
	Name string // original file name, for logs
	Data io.ReadSeeker
}

// Request asks for one workflow run.
type Request struct {
	Workflow string
	Files    map[string]File
	Params   Params
}

// Result describes a completed run.
type Result struct {
	RunID    string   `json:"run_id"`
	Workflow string   `json:"workflow"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
	Graphs   int      `json:"graphs"`
	Rows     int      `json:"rows"`
	Dropped  int      `json:"dropped"`
	Degraded []string `json:"degraded,omitempty"` // inputs read as ISO-8859-1
	Deck     string   `json:"deck,omitempty"`
	Project  string   `json:"project,omitempty"`

	Artifacts []plot.Artifact `json:"-"`
}

// Service runs workflows: ingest, build, render and export.
type Service struct {
	host     plot.Host
	exporter Exporter
	limiter  *SessionLimiter
	recorder Recorder
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder stores every successful run.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLimiter replaces the default session limiter.
func WithLimiter(l *SessionLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// NewService creates a Service rendering through host and exporting through exporter.
func NewService(host plot.Host, exporter Exporter, opts ...Option) *Service {
	s := &Service{host: host, exporter: exporter}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewSessionLimiter(DefaultMaxWaitTime)
	}
	return s
}

// Limiter returns the session limiter, for status and shutdown.
func (s *Service) Limiter() *SessionLimiter {
	return s.limiter
}

// Run executes one workflow while holding the rendering session.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	wf, err := LookupWorkflow(req.Workflow)
	if err != nil {
		return nil, err
	}
	if err := wf.check(req); err != nil {
		return nil, err
	}
	profile, err := ingest.Lookup(wf.Profile)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Workflow: wf.Key}
	logger := logging.WithFields(ctx, "run_id", res.RunID, "workflow", wf.Key)
	logger.Info("run started", "files", len(wf.Files))

	tables := make(map[string]*ingest.Table, len(wf.Files))
	for _, key := range wf.Files {
		f := req.Files[key]
		t, err := ingest.Project(f.Data, profile)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", key, filepath.Base(f.Name), err)
		}
		meta := t.Meta()
		if meta.Degraded {
			logger.Warn("input decoded with fallback", "file", key, "error", &ingest.DecodeDegraded{Encoding: meta.Encoding})
			res.Degraded = append(res.Degraded, key)
		}
		logger.Debug("input projected",
			"file", key,
			"rows", t.Len(),
			"dropped", meta.Dropped,
			"header_offset", meta.HeaderOffset,
			"delimiter", string(meta.Delimiter),
		)
		res.Dropped += meta.Dropped
		tables[key] = t
	}

	report, err := wf.Build(Input{Tables: tables, Params: req.Params})
	if err != nil {
		return nil, err
	}
	report.Workflow = wf.Key
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	artifacts, err := s.render(ctx, report)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.Graphs = len(artifacts)
	res.Rows = report.Rows()

	if req.Params.CreateDeck {
		path, err := s.exporter.WriteDeck(report.Deck, artifacts)
		if err != nil {
			logger.Warn("slide bundle not written", "error", err)
			res.Warnings = append(res.Warnings, deckWarning(report.Deck, err))
		} else {
			res.Deck = path
		}
	}
	if req.Params.SaveProject {
		path, err := s.exporter.SaveProject(report.Books)
		switch {
		case errors.Is(err, export.ErrResourceLocked):
			logger.Warn("project archive locked", "error", err)
			res.Warnings = append(res.Warnings, "Project file locked. Skipping save.")
		case err != nil:
			return nil, fmt.Errorf("save project: %w", err)
		default:
			res.Project = path
		}
	}

	res.Message = message(res.Warnings)
	elapsed := time.Since(start)
	logger.Info("run finished",
		"graphs", res.Graphs,
		"rows", res.Rows,
		"warnings", len(res.Warnings),
		"duration", elapsed,
	)

	s.record(ctx, logger, res, wf, elapsed)
	return res, nil
}

// render draws every graph inside one session, released on all paths.
func (s *Service) render(ctx context.Context, r *plot.Report) ([]plot.Artifact, error) {
	sess, err := s.host.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open rendering session: %w", err)
	}
	defer sess.Close()

	out := make([]plot.Artifact, 0, len(r.Graphs))
	for _, g := range r.Graphs {
		a, err := sess.Render(ctx, r, g)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", g.Name, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) record(ctx context.Context, logger *slog.Logger, res *Result, wf Workflow, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	id, _ := uuid.Parse(res.RunID)
	run := history.Run{
		ID:       id,
		Workflow: wf.Key,
		Files:    wf.Files,
		Rows:     res.Rows,
		Graphs:   res.Graphs,
		Warnings: res.Warnings,
		Degraded: len(res.Degraded) > 0,
		Duration: elapsed,
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("run not recorded", "error", err)
	}
}

func deckWarning(deck string, err error) string {
	if errors.Is(err, export.ErrResourceLocked) {
		return fmt.Sprintf("File %s.zip is open. Close it to save.", deck)
	}
	return err.Error()
}

func message(warnings []string) string {
	if len(warnings) == 0 {
		return MessageOK
	}
	return "Done. Warnings: " + strings.Join(warnings, " ")
}
