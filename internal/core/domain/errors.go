package domain

import "errors"

// Domain errors represent pipeline failures.
// Fatal errors abort a batch; the rest become per-item skips.
var (
	// ErrMissingCredential indicates no API key was configured.
	// This is a configuration error and is fatal at startup.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrAuthFailed indicates the API rejected the configured credential.
	// Retrying cannot fix a bad credential, so this aborts the batch.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound indicates a requested survey or file does not exist.
	// Recorded as a per-item skip, never fatal to the batch.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousTitle indicates multiple surveys share the requested title.
	// The survey is skipped rather than guessing which one was meant.
	ErrAmbiguousTitle = errors.New("ambiguous survey title")

	// ErrParse indicates malformed XML that could not be processed.
	ErrParse = errors.New("parse error")

	// ErrConventionMismatch indicates a composite question whose children
	// only partially follow the sub-item naming convention. The node is
	// skipped and logged for manual review instead of guessing a split.
	ErrConventionMismatch = errors.New("question naming convention mismatch")

	// ErrEmptyQuestion indicates a question with no usable label or
	// response content. Such questions are excluded from encoding output.
	ErrEmptyQuestion = errors.New("question has no usable content")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
