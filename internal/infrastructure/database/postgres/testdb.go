// internal/infrastructure/database/postgres/testdb.go
package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewMemoryDB opens a private in-memory SQLite database with every table
// migrated. Each call returns an isolated database.
func NewMemoryDB(logger logrus.FieldLogger) (*gorm.DB, error) {
	database, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		return nil, err
	}
	if err := NewMigration(database.GetDB(), logger).RunAutoMigrations(); err != nil {
		return nil, err
	}
	return database.GetDB(), nil
}
