package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFolderName(t *testing.T) {
	assert.Equal(t, "Arctic Monkeys - AM (2013) [24B-44.1kHz]",
		FolderName("Arctic Monkeys", "AM", 2013, 24, 44.1))
	assert.Equal(t, "Nila - Blue (1999) [16B-48kHz]",
		FolderName("Nila", "Blue", 1999, 16, 48.0))

	a := &Album{Title: "Blue", ReleaseYear: 1999, BitDepth: 16, SampleRate: 96}
	assert.Equal(t, "Nila - Blue (1999) [16B-96kHz]", a.FolderName("Nila"))
}

func TestOpenSQLiteEnablesForeignKeys(t *testing.T) {
	d, ok := OpenSQLite("catalog.db").(sqlite.Dialector)
	require.True(t, ok)
	assert.Equal(t, "sqlite", d.DriverName)
	assert.Equal(t, "catalog.db?_pragma=foreign_keys(1)", d.DSN)

	d = OpenSQLite("file:x.db?mode=memory").(sqlite.Dialector)
	assert.Equal(t, "file:x.db?mode=memory", d.DSN)
}

func TestMigrateAndDialect(t *testing.T) {
	db, err := gorm.Open(OpenSQLite(filepath.Join(t.TempDir(), "m.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Migrate(db))
	assert.Equal(t, DriverSQLite, Dialect(db))
	assert.True(t, db.Migrator().HasIndex(&Track{}, "Keyword"))
	assert.False(t, db.Migrator().HasIndex(&Track{}, "BenchmarkOrder"))
	assert.True(t, db.Migrator().HasIndex(&Artist{}, "Name"))

	artist := Artist{Name: "Kora Tenu"}
	require.NoError(t, db.Create(&artist).Error)
	assert.NotEmpty(t, artist.ID)
	assert.Error(t, db.Create(&Artist{Name: "Kora Tenu"}).Error, "names are unique")
}
