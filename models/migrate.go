package models

import "gorm.io/gorm"

// legacySerialIndex covered soft-deleted rows too and blocked re-inserting a
// deleted serial. It is replaced by the partial idx_titles_serial_live.
const legacySerialIndex = "idx_titles_serial_number"

// Migrate creates or updates every table the registry uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Municipality{}, &Title{}, &User{}, &SyncRun{}); err != nil {
		return err
	}
	m := db.Migrator()
	if m.HasIndex(&Title{}, legacySerialIndex) {
		return m.DropIndex(&Title{}, legacySerialIndex)
	}
	return nil
}
