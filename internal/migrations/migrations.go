// Package migrations keeps the audit database schema up to date.
package migrations

import (
	"fmt"

	"github.com/webscout/webscout/internal/model"
	"gorm.io/gorm"
)

// Migrate runs all pending schema migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.ToolCall{}); err != nil {
		return fmt.Errorf("failed to migrate tool call audit table: %w", err)
	}
	return nil
}
