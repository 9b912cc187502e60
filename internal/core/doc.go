// Package core provides the business logic for measurement workflows.
//
// This package turns uploaded instrument exports into rendered graphs,
// independent of any UI or transport layer. It can be used by web handlers,
// CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Workflows: Registered via [RegisterWorkflow], each names an instrument
//     profile, the file fields and numeric parameters it needs, and a builder
//     that arranges projected tables into a [plot.Report].
//   - Service: The main entry point. [Service.Run] projects every input,
//     builds the report, renders it and exports the results.
//   - Session limiter: The rendering host is a single shared resource, so
//     [SessionLimiter] lets one run hold it at a time.
//
// # Workflow Registry
//
// Workflows are registered at init time:
//
//	core.RegisterWorkflow(Workflow{
//	    Key:     "ppms",
//	    Label:   "PPMS Resistance",
//	    Profile: ingest.ProfilePPMS,
//	    Files:   []string{FileCooling, FileWarming},
//	    Params:  []string{ParamPressure},
//	    Build:   buildResistance,
//	})
//
// # Run
//
//  1. The workflow is looked up and the request checked for files and numbers
//  2. The rendering session is acquired, or [ErrSessionBusy] after the wait limit
//  3. Each file is projected with the workflow's profile
//  4. The builder segments and groups the tables into books and graphs
//  5. Every graph is rendered inside one session, closed on all paths
//  6. The slide bundle and project archive are written when asked for
//
// A locked output file is a warning, not a failure: the run still succeeds
// and the message lists what was skipped.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - ING001-ING003: Ingest errors (missing columns, no data, unknown profile)
//   - WF001, VAL002: Unknown workflow, invalid numbers
//   - FILE001-FILE004: File errors (size, missing file)
//   - UPL002-UPL005: Run errors (busy, cancelled, timeout)
//   - EXP001: Locked output files
package core
