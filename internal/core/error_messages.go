package core

// error_messages.go maps technical errors to messages users can act on.
//
// # Error Codes Reference
//
// Users quote the code when reporting a problem.
//
// # Ingestion Errors (ING001-ING099)
//
//	ING001 - Schema: The file does not have the columns this instrument writes
//	         Action: Check that the right measurement type was selected
//	         Matched by type: *ingest.SchemaError
//
//	ING002 - No data: No valid data rows were found in the file
//	         Action: Check the file contents and the header lines
//	         Matched by type: *ingest.EmptyInputError
//
//	ING003 - Unknown profile: The instrument profile is not configured
//	         Patterns: "unknown instrument profile"
//
// # Workflow Errors (WF001-WF099)
//
//	WF001 - Unknown workflow: The requested measurement type does not exist
//	        Patterns: "unknown workflow"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid form: The upload could not be read
//	         Patterns: "invalid upload form"
//
//	VAL002 - Invalid number: A numeric field is missing or not a number
//	         Patterns: "invalid number"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: The upload exceeds the size limit
//	          Patterns: "file too large", "request body too large"
//
//	FILE004 - No file: A required file was not selected
//	          Patterns: "no file provided"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Another measurement is being processed
//	         Patterns: "too many uploads"
//
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Locked: An export target is open in another program
//	         Patterns: "resource locked"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application log for the run id.
//
// Typed errors are matched first with errors.As; the remaining patterns are
// matched case-insensitively with strings.Contains and the first match wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/labplot/internal/ingest"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	schemaMessage = UserMessage{
		Message: "The file does not have the columns this instrument writes",
		Action:  "Check that the right measurement type was selected",
		Code:    "ING001",
	}
	emptyMessage = UserMessage{
		Message: "No valid data rows were found in the file",
		Action:  "Check the file contents and the header lines",
		Code:    "ING002",
	}
)

// errorPatterns is ordered; specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "unknown instrument profile",
		msg: UserMessage{
			Message: "The instrument profile is not configured",
			Action:  "Check PROFILES_FILE or choose a built-in instrument",
			Code:    "ING003",
		},
	},
	{
		pattern: "unknown workflow",
		msg: UserMessage{
			Message: "The requested measurement type does not exist",
			Action:  "Pick one of the listed measurement types",
			Code:    "WF001",
		},
	},
	{
		pattern: "invalid upload form",
		msg: UserMessage{
			Message: "The upload could not be read",
			Action:  "Submit the form again from the start page",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "A numeric field is missing or not a number",
			Action:  "Enter plain decimal numbers such as 2.5",
			Code:    "VAL002",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The upload exceeds the size limit",
			Action:  "Upload a smaller file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The upload exceeds the size limit",
			Action:  "Upload a smaller file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "A required file was not selected",
			Action:  "Select every data file the measurement asks for",
			Code:    "FILE004",
		},
	},
	{
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "Another measurement is being processed",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "UPL005",
		},
	},
	{
		pattern: "resource locked",
		msg: UserMessage{
			Message: "An export target is open in another program",
			Action:  "Close the file and run the measurement again",
			Code:    "EXP001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the server log",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var se *ingest.SchemaError
	if errors.As(err, &se) {
		msg := schemaMessage
		msg.Message = fmt.Sprintf("%s (%s)", msg.Message, se.Error())
		return msg
	}
	var ee *ingest.EmptyInputError
	if errors.As(err, &ee) {
		return emptyMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
