package llm

import "errors"

var (
	// ErrUnavailable indicates the AI endpoint is unreachable.
	ErrUnavailable = errors.New("ai endpoint unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("ai request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structured format.
	ErrInvalidOutput = errors.New("invalid ai output format")

	// ErrRequestFailed indicates the endpoint answered with a non-2xx status.
	ErrRequestFailed = errors.New("ai request failed")
)
