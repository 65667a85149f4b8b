// Package model contains the database models used by webscout.
package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ToolCall is the audit record of a single tool invocation.
type ToolCall struct {
	gorm.Model

	// Adapter is the adapter that served the call ("search" or "reader").
	Adapter string `json:"adapter" gorm:"not null"`

	// Tool is the name of the invoked tool.
	Tool string `json:"tool" gorm:"not null"`

	// Outcome records how the call ended: success, error or rejected.
	Outcome string `json:"outcome" gorm:"not null"`

	// Arguments holds the validated arguments the tool was called with.
	Arguments datatypes.JSON `json:"arguments"`

	// Detail carries the failure description for unsuccessful calls.
	Detail string `json:"detail"`

	DurationMs int64 `json:"duration_ms"`
}
