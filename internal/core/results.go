package core

import (
	"encoding/json"
	"fmt"
)

// Tool result payloads. Job-lifecycle and local-validation outcomes are
// ordinary payloads, not transport errors, so the calling agent branches
// on content rather than on exception handling.

// ErrorPayload reports local validation and not-found outcomes.
type ErrorPayload struct {
	Error string `json:"error"`
}

// JobErrorPayload reports a remote job that ended in status "error". The
// message carries the job's messages payload verbatim.
type JobErrorPayload struct {
	Status  string          `json:"status"`
	UID     string          `json:"uid,omitempty"`
	Message json.RawMessage `json:"message"`
}

// NewJobErrorPayload builds the error payload, defaulting the message to
// an empty object when the job reported none.
func NewJobErrorPayload(messages json.RawMessage) JobErrorPayload {
	if len(messages) == 0 {
		messages = json.RawMessage(`{}`)
	}
	return JobErrorPayload{Status: "error", Message: messages}
}

// JobPendingPayload signals "retry later": the poll ceiling was exhausted
// while the remote job was still running. Distinct from JobErrorPayload.
type JobPendingPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DeployResult is the output of deploying a freshly uploaded form.
type DeployResult struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	EnketoURL string `json:"enketo_url"`
	URL       string `json:"url"`
}

// ReplaceResult is the output of replacing an existing form's content.
// UID is always the original form's uid; replacement never changes
// identity, only the content version.
type ReplaceResult struct {
	UID             string `json:"uid"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	SubmissionCount int    `json:"submission_count"`
	EnketoURL       string `json:"enketo_url"`
	URL             string `json:"url"`
}

// ExportResult is the output of a completed data export.
type ExportResult struct {
	Status      string `json:"status"`
	DownloadURL string `json:"download_url"`
	Type        string `json:"type"`
}

// SavedForm is the output of writing a form definition to a local file.
type SavedForm struct {
	UID          string `json:"uid"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	BytesWritten int    `json:"bytes_written"`
}

// SubmissionPage passes submission records through uninterpreted.
type SubmissionPage struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}

// RenderJSON pretty-prints a tool result with the 2-space indent every
// JSON tool response uses.
func RenderJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render result: %w", err)
	}
	return string(b), nil
}
