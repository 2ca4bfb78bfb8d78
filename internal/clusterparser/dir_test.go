package clusterparser_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterviz/internal/clusterparser"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseRelationsDir_Filtering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "enriched_cluster_3.txt", "Relation: located in 42.50%\n\t↳ 30.10% country\n")
	writeFile(t, dir, "enriched_cluster_10.txt", "Relation: has role 18.00%\n")
	writeFile(t, dir, "readme.txt", "Relation: ignored 1.00%\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "enriched_cluster_5.txt"), 0o755))

	got, err := clusterparser.New().ParseRelationsDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.Contains(t, got, 3)
	require.Contains(t, got, 10)

	require.Len(t, got[3], 1)
	assert.Equal(t, "located in", got[3][0].Name)
	occ, err := got[3][0].Occurrence("country")
	require.NoError(t, err)
	assert.InDelta(t, 30.10, occ, 1e-9)
	assert.Equal(t, "has role", got[10][0].Name)
}

func TestParseRelationsDir_ManyFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, dir, fmt.Sprintf("enriched_cluster_%d.txt", i), fmt.Sprintf("Relation: rel %d 1.00%%\n", i))
	}

	got, err := clusterparser.New(clusterparser.WithWorkers(4)).ParseRelationsDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, got, 50)
	for i := 0; i < 50; i++ {
		require.Len(t, got[i], 1)
		assert.Equal(t, fmt.Sprintf("rel %d", i), got[i][0].Name)
	}
}

func TestParseRelationsDir_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := clusterparser.New().ParseRelationsDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("strict orphan value aborts the scan", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "enriched_cluster_1.txt", "Relation: ok 1.00%\n")
		writeFile(t, dir, "enriched_cluster_2.txt", "\t↳ 1.00% orphan\n")

		got, err := clusterparser.New(clusterparser.WithStrictValues(true)).ParseRelationsDir(context.Background(), dir)
		require.ErrorIs(t, err, clusterparser.ErrOrphanValue)
		assert.Nil(t, got)
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "enriched_cluster_1.txt", "Relation: ok 1.00%\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := clusterparser.New().ParseRelationsDir(ctx, dir)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseRelationsDir_Empty(t *testing.T) {
	got, err := clusterparser.New().ParseRelationsDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}
