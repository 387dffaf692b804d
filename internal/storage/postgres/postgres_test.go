package postgres

import (
	"testing"

	"github.com/ftageo/basesim/internal/savegame/savegametest"
	gormstorage "github.com/ftageo/basesim/internal/storage/gorm"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNew(t *testing.T) {
	b := New(gormstorage.Dependencies{})
	require.NotNil(t, b)
	assert.Nil(t, b.DB())
}

func TestInitClose_InjectedDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	b := New(gormstorage.Dependencies{DB: db, Mod: savegametest.Mod(t)})
	require.NoError(t, b.Init())
	assert.Same(t, db, b.DB())

	require.NoError(t, b.SaveGame(savegametest.Game(t, b.Mod(), "campaign")))
	names, err := b.ListGames()
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign"}, names)

	require.NoError(t, b.Close())
}

func TestInit_ConnectionRefused(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db.host", "127.0.0.1")
	viper.Set("db.port", "1")
	viper.Set("db.username", "postgres")
	viper.Set("db.password", "postgres")
	viper.Set("db.database", "basesim")

	b := New(gormstorage.Dependencies{Mod: savegametest.Mod(t)})
	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}
