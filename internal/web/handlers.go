package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/labplot/internal/core"
	"github.com/JonMunkholm/labplot/internal/history"
	"github.com/JonMunkholm/labplot/internal/ingest"
	"github.com/JonMunkholm/labplot/internal/logging"
	"github.com/JonMunkholm/labplot/internal/web/templates"
)

// Form fields shared by every workflow.
const (
	fieldDate        = "lastModified"
	fieldCreateDeck  = "createPPT"
	fieldSaveProject = "saveProject"
)

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(core.Workflows()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleRun runs one workflow from a multipart upload.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	wf, err := core.LookupWorkflow(chi.URLParam(r, "workflow"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: %v", core.ErrInvalidForm, err)
		}
		s.respondError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, closeFiles, err := runRequest(r, wf)
	defer closeFiles()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.Run(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// runRequest collects the files and parameters wf asks for. The returned
// func closes every opened file and is safe to call on error.
func runRequest(r *http.Request, wf core.Workflow) (core.Request, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	req := core.Request{
		Workflow: wf.Key,
		Files:    make(map[string]core.File, len(wf.Files)),
		Params: core.Params{
			Numbers:     make(map[string]float64, len(wf.Params)),
			Date:        strings.TrimSpace(r.FormValue(fieldDate)),
			CreateDeck:  r.FormValue(fieldCreateDeck) == "true",
			SaveProject: r.FormValue(fieldSaveProject) == "true",
		},
	}

	for _, key := range wf.Files {
		file, header, err := r.FormFile(key)
		if err != nil {
			return req, closeAll, fmt.Errorf("%w: %s", core.ErrMissingFile, key)
		}
		closers = append(closers, file)
		if header.Filename == "" {
			return req, closeAll, fmt.Errorf("%w: %s", core.ErrMissingFile, key)
		}
		req.Files[key] = core.File{Name: header.Filename, Data: file}
	}

	for _, key := range wf.Params {
		v, err := core.ParseNumber(key, r.FormValue(key))
		if err != nil {
			return req, closeAll, err
		}
		req.Params.Numbers[key] = v
	}
	return req, closeAll, nil
}

// handleListWorkflows returns every registered workflow.
func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, core.Workflows())
}

// ProfileView is the JSON form of an instrument profile.
type ProfileView struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	HeaderSkip     int      `json:"header_skip"` // -1 means "[Data]" marker
	SourceColumns  []int    `json:"source_columns"`
	OutputNames    []string `json:"output_names"`
	Primary        string   `json:"primary"`
	QuantizeColumn string   `json:"quantize_column,omitempty"`
	QuantizeStep   float64  `json:"quantize_step,omitempty"`
	DropIncomplete bool     `json:"drop_incomplete"`
}

// handleListProfiles returns every registered instrument profile.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := ingest.Profiles()
	out := make([]ProfileView, 0, len(profiles))
	for _, p := range profiles {
		v := ProfileView{
			ID:             p.ID,
			Label:          p.Label,
			HeaderSkip:     p.HeaderSkip,
			SourceColumns:  p.SourceColumns,
			OutputNames:    p.OutputNames,
			Primary:        p.PrimaryColumn(),
			DropIncomplete: p.DropIncomplete,
		}
		if q := p.Quantize; q != nil {
			v.QuantizeColumn, v.QuantizeStep = q.Column, q.Step
		}
		out = append(out, v)
	}
	writeJSON(w, out)
}

// handleStatus reports whether the rendering session is in use.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Limiter().Status())
}

// handleHistory returns the most recent runs.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	runs, err := s.history.Recent(r.Context(), history.ClampLimit(limit))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("load history: %w", err))
		return
	}
	writeJSON(w, runs)
}
