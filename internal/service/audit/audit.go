// Package audit records tool invocations in the audit store.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/webscout/webscout/internal/model"
	"github.com/webscout/webscout/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Entry describes a single tool invocation to be recorded.
type Entry struct {
	Adapter   string
	Tool      string
	Outcome   telemetry.ToolCallOutcome
	Arguments map[string]any
	Detail    string
	Duration  time.Duration
}

// Recorder persists tool invocation records.
// Recording is best-effort: failures must never affect the outcome of the
// tool call being recorded.
type Recorder interface {
	RecordToolCall(ctx context.Context, e Entry)
}

type noopRecorder struct{}

// NewNoopRecorder returns a Recorder that discards all entries.
// It is used when no audit database is configured.
func NewNoopRecorder() Recorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordToolCall(context.Context, Entry) {}

type dbRecorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDBRecorder returns a Recorder that writes entries to the audit database.
func NewDBRecorder(db *gorm.DB, logger *zap.Logger) Recorder {
	return &dbRecorder{db: db, logger: logger}
}

func (r *dbRecorder) RecordToolCall(ctx context.Context, e Entry) {
	// argument marshalling is best-effort, a row without arguments is still useful
	args, err := json.Marshal(e.Arguments)
	if err != nil {
		r.logger.Warn("failed to marshal tool call arguments for audit",
			zap.String("tool", e.Tool), zap.Error(err))
		args = nil
	}

	record := &model.ToolCall{
		Adapter:    e.Adapter,
		Tool:       e.Tool,
		Outcome:    string(e.Outcome),
		Arguments:  args,
		Detail:     e.Detail,
		DurationMs: e.Duration.Milliseconds(),
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.logger.Warn("failed to record tool call in audit store",
			zap.String("tool", e.Tool), zap.Error(err))
	}
}
