package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"noteswift/internal/auth"
	"noteswift/internal/note"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

// OpenSQLite opens a file-backed or in-memory sqlite database. Used for
// local runs and the test suite; production deploys run postgres.
func OpenSQLite(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return gdb, nil
}

// Migrate creates the tables. Dialect-neutral; tests call this directly.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&auth.Account{},
		&note.Note{},
	)
}

// MigrateAndIndexes runs Migrate plus the postgres-specific indexes.
func MigrateAndIndexes(gdb *gorm.DB) error {
	if err := Migrate(gdb); err != nil {
		return err
	}

	// Tag filtering and lookups (GIN for text[])
	if err := gdb.Exec(`create index if not exists idx_notes_tags on notes using gin (tags);`).Error; err != nil {
		return err
	}

	// Full-text search on content
	if err := gdb.Exec(`create index if not exists idx_notes_fts on notes using gin (to_tsvector('simple', content));`).Error; err != nil {
		return err
	}

	// Due-reminder scan: partial index over exactly what the scheduler reads
	if err := gdb.Exec(`
create index if not exists idx_notes_due
on notes(reminder_at)
where reminder_set and deleted_at is null;
`).Error; err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_notes_owner_updated on notes(owner_id, updated_at desc);`,
		`create index if not exists idx_notes_owner_deleted on notes(owner_id, deleted_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
