package ai

import "errors"

// Error taxonomy. Input errors are checked before any request is issued;
// transport and schema failures both surface to the user as a generic
// "generation failed" message but stay distinguishable for diagnostics via
// errors.Is.
var (
	// ErrNoFragments is returned when a generation is requested with an
	// empty fragment list. No request is issued.
	ErrNoFragments = errors.New("no fragments to generate from")

	// ErrNoAPIKey is returned when the caller supplied no credential.
	// No request is issued.
	ErrNoAPIKey = errors.New("missing API key")

	// ErrTransport wraps backend request failures: network, auth, quota.
	ErrTransport = errors.New("provider request failed")

	// ErrSchema wraps responses that are not parseable as the expected
	// JSON shape or are missing required fields.
	ErrSchema = errors.New("response does not match expected shape")
)
