package domain

import "errors"

var (
	// ErrInvalidInput is returned for missing or malformed caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed wraps network errors, timeouts and non-2xx responses
	// from a target site. The resolver absorbs it.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrParseFailed wraps HTML parsing problems. The resolver absorbs it.
	ErrParseFailed = errors.New("parse failed")

	// ErrBlockedTarget is returned when a URL points at a private or otherwise
	// disallowed address.
	ErrBlockedTarget = errors.New("blocked target address")

	// ErrUnexpected is any failure nobody planned for. It is the only
	// resolver error surfaced as a server error.
	ErrUnexpected = errors.New("unexpected failure")

	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
)
