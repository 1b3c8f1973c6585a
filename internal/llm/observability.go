package llm

import "go.uber.org/zap"

// CallEvent records metadata about a single AI invocation.
type CallEvent struct {
	Task      TaskType
	LatencyMs int64
	PromptLen int
	Success   bool
	ErrorCode string
}

// Observer receives events about AI calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zap logger.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates an Observer that logs events to l.
func NewLogObserver(l *zap.Logger) *LogObserver {
	return &LogObserver{logger: l}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("task", string(event.Task)),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.Int("prompt_len", event.PromptLen),
	}
	if event.Success {
		o.logger.Info("ai_call", fields...)
		return
	}
	o.logger.Warn("ai_call", append(fields, zap.String("error_code", event.ErrorCode))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
