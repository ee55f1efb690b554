package migration

import (
	"context"
	"testing"
	"testing/fstest"

	"jobboard/internal/database/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_OrdersAndSkipsOthers(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql":   {Data: []byte("SELECT 10;")},
		"V2__second.sql":   {Data: []byte("  SELECT 2;\n")},
		"V1__init.sql":     {Data: []byte("SELECT 1;")},
		"README.md":        {Data: []byte("notes")},
		"nested/V3__x.sql": {Data: []byte("SELECT 3;")},
	}

	migs, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migs, 3)
	assert.Equal(t, []int64{1, 2, 10}, []int64{migs[0].Version, migs[1].Version, migs[2].Version})
	assert.Equal(t, "second", migs[1].Name)
	assert.Equal(t, "SELECT 2;", migs[1].SQL)
	assert.Len(t, migs[0].Checksum, 64)
}

func TestLoadMigrations_Errors(t *testing.T) {
	_, err := LoadMigrations(fstest.MapFS{"V1__empty.sql": {Data: []byte("  \n")}})
	assert.Error(t, err)

	_, err = LoadMigrations(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 1;")},
	})
	assert.Error(t, err)
}

func TestLoadMigrations_ChecksumIgnoresSurroundingSpace(t *testing.T) {
	a, err := LoadMigrations(fstest.MapFS{"V1__a.sql": {Data: []byte("SELECT 1;")}})
	require.NoError(t, err)
	b, err := LoadMigrations(fstest.MapFS{"V1__a.sql": {Data: []byte("\nSELECT 1;\n\n")}})
	require.NoError(t, err)
	assert.Equal(t, a[0].Checksum, b[0].Checksum)
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	migs, err := LoadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
}

func TestRun_NilDB(t *testing.T) {
	_, err := Runner{FS: fstest.MapFS{}}.Run(context.Background(), nil)
	assert.Error(t, err)
}
