package events

import (
	"go.uber.org/zap"
)

// LogHandler writes every event it receives to a logger
type LogHandler struct {
	logger *zap.Logger
	types  map[string]bool
}

func NewLogHandler(logger *zap.Logger, eventTypes []string) *LogHandler {
	types := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = true
	}
	return &LogHandler{logger: logger, types: types}
}

func (h *LogHandler) CanHandle(eventType string) bool {
	return h.types[eventType]
}

func (h *LogHandler) Handle(event Event) error {
	h.logger.Debug("planning event",
		zap.String("event_type", event.Type()),
		zap.String("stream_id", event.StreamID()),
		zap.Int("version", event.Version()),
		zap.Any("data", event.Data()))
	return nil
}
