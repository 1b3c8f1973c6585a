package llm

import "time"

// TaskType identifies the kind of AI task being performed.
type TaskType string

const (
	TaskGoalExtract TaskType = "goal_extract"
)

// Config holds the settings for the goal-extraction AI endpoint.
type Config struct {
	// Endpoint is the base URL; requests go to Endpoint + "/gemini-extract".
	Endpoint   string
	TimeoutMs  int
	MaxRetries int
	LogCalls   bool
}

// DefaultConfig returns the defaults used when nothing is configured.
// Retries are off.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "http://localhost:8080/api",
		TimeoutMs:  60000,
		MaxRetries: 0,
	}
}

// Timeout returns the per-call timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return DefaultConfig().Timeout()
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
