package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1kko/entangled/internal/filedb"
	"github.com/v1kko/entangled/internal/vfs"
)

func TestWriteNewPathCommits(t *testing.T) {
	fs := vfs.NewMemory()
	db := filedb.New()

	tx := Begin(fs, db, FAIL, nil)
	require.NoError(t, tx.CreateTarget("test.py", "print(1)\n"))
	require.NoError(t, tx.Commit())

	content, err := fs.ReadString("test.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", content)
	assert.True(t, db.IsTarget("test.py"))
}

func TestSecondTangleIsIdempotent(t *testing.T) {
	fs := vfs.NewMemory()
	db := filedb.New()

	tx1 := Begin(fs, db, FAIL, nil)
	require.NoError(t, tx1.CreateTarget("test.py", "print(1)\n"))
	require.NoError(t, tx1.Commit())

	tx2 := Begin(fs, db, FAIL, nil)
	require.NoError(t, tx2.CreateTarget("test.py", "print(1)\n"))
	assert.Empty(t, tx2.writes)
	require.NoError(t, tx2.Commit())
}

func TestOutOfBandEditFailsUnderFail(t *testing.T) {
	fs := vfs.NewMemory()
	db := filedb.New()

	tx1 := Begin(fs, db, FAIL, nil)
	require.NoError(t, tx1.CreateTarget("test.py", "print(1)\n"))
	require.NoError(t, tx1.Commit())

	require.NoError(t, fs.WriteString("test.py", "print(2)\n"))

	tx2 := Begin(fs, db, FAIL, nil)
	err := tx2.Write("test.py", "print(1)\n")
	assert.Error(t, err)

	content, _ := fs.ReadString("test.py")
	assert.Equal(t, "print(2)\n", content)
}

func TestOutOfBandEditForceOverwrites(t *testing.T) {
	fs := vfs.NewMemory()
	db := filedb.New()

	tx1 := Begin(fs, db, FAIL, nil)
	require.NoError(t, tx1.CreateTarget("test.py", "print(1)\n"))
	require.NoError(t, tx1.Commit())

	require.NoError(t, fs.WriteString("test.py", "print(2)\n"))

	tx2 := Begin(fs, db, FORCE, nil)
	require.NoError(t, tx2.CreateTarget("test.py", "print(1)\n"))
	require.NoError(t, tx2.Commit())

	content, _ := fs.ReadString("test.py")
	assert.Equal(t, "print(1)\n", content)
}

func TestShowModePerformsNoIO(t *testing.T) {
	fs := vfs.NewMemory()
	db := filedb.New()

	tx := Begin(fs, db, SHOW, nil)
	require.NoError(t, tx.CreateTarget("test.py", "print(1)\n"))
	require.NoError(t, tx.Commit())

	assert.False(t, fs.Exists("test.py"))
	assert.NotEmpty(t, tx.Notices())
}

func TestResetDBRecordsExistingFileWithoutWriting(t *testing.T) {
	fs := vfs.NewMemory()
	require.NoError(t, fs.WriteString("test.py", "print(9)\n"))
	db := filedb.New()

	tx := Begin(fs, db, RESETDB, nil)
	require.NoError(t, tx.CreateTarget("test.py", "print(1)\n"))
	require.NoError(t, tx.Commit())

	content, _ := fs.ReadString("test.py")
	assert.Equal(t, "print(9)\n", content)

	stat, ok := db.Get("test.py")
	require.True(t, ok)
	assert.NotEmpty(t, stat.Hex)
}

func TestClearOrphansDeletesUnproducedTargets(t *testing.T) {
	fs := vfs.NewMemory()
	db := filedb.New()

	tx1 := Begin(fs, db, FAIL, nil)
	require.NoError(t, tx1.CreateTarget("a.py", "a\n"))
	require.NoError(t, tx1.CreateTarget("b.py", "b\n"))
	require.NoError(t, tx1.Commit())

	tx2 := Begin(fs, db, FAIL, nil)
	require.NoError(t, tx2.CreateTarget("a.py", "a\n"))
	require.NoError(t, tx2.ClearOrphans())
	require.NoError(t, tx2.Commit())

	assert.True(t, fs.Exists("a.py"))
	assert.False(t, fs.Exists("b.py"))
	assert.False(t, db.Contains("b.py"))
}

func TestDeleteOutOfBandFailsUnderFail(t *testing.T) {
	fs := vfs.NewMemory()
	db := filedb.New()

	tx1 := Begin(fs, db, FAIL, nil)
	require.NoError(t, tx1.CreateTarget("a.py", "a\n"))
	require.NoError(t, tx1.Commit())

	require.NoError(t, fs.WriteString("a.py", "edited\n"))

	tx2 := Begin(fs, db, FAIL, nil)
	err := tx2.Delete("a.py")
	assert.Error(t, err)
}
