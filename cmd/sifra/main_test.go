package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
)

func TestExecute_ClosesAppWhenCommandFails(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{
		"trend",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--db", filepath.Join(dir, "runs.db"),
		"--log-level", "error",
		"--data", "[[1,",
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		configPath, dbPath, logLevel = "sifra.yaml", "", ""
		current = nil
	})

	err := execute(rootCmd)
	require.ErrorIs(t, err, dataset.ErrInvalidInput)

	require.NotNil(t, current)
	require.NotNil(t, current.store)
	require.Error(t, current.store.DB().Ping(), "store left open after a failed command")
}
