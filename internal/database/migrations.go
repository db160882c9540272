package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns []string
}

// Composite indexes backing the overlap query and the roster lookups.
// Single-column indexes are declared on the models.
var compositeIndexes = []compositeIndex{
	{"meetings", "idx_meetings_slot", []string{"start_date", "start_time", "end_time"}},
	{"meetings", "idx_meetings_creator_date", []string{"creator_id", "start_date"}},
	{"meeting_members", "idx_meeting_members_employee", []string{"employee_id", "deleted_at"}},
	{"group_members", "idx_group_members_employee", []string{"employee_id", "deleted_at"}},
	{"time_entries", "idx_time_entries_issue_employee", []string{"issue_id", "employee_id"}},
}

// AddIndexes creates the composite indexes that are missing
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
	}

	return nil
}
