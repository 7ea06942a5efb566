package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_servesByDefault(t *testing.T) {
	root := newRootCommand()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, root.RunE, "bare invocation must start the server")
	assert.Equal(t, "serve", serve.Name())

	for _, sub := range []string{"up", "down", "status"} {
		c, _, err := root.Find([]string{"migrate", sub})
		require.NoError(t, err)
		assert.Equal(t, sub, c.Name())
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, []*goose.MigrationStatus{
		{
			Source:    &goose.Source{Version: 1, Path: "00001_create_brands.sql"},
			State:     goose.StateApplied,
			AppliedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Source: &goose.Source{Version: 2, Path: "00002_create_cameras.sql"},
			State:  goose.StatePending,
		},
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "00001")
	assert.Contains(t, string(lines[0]), "2025-03-01 12:00:00")
	assert.Contains(t, string(lines[1]), "pending")
	assert.Contains(t, string(lines[1]), "00002_create_cameras.sql")
}

func TestNewLogger_unknownLevelFallsBackToInfo(t *testing.T) {
	log := newLogger("loud")

	assert.False(t, log.Handler().Enabled(t.Context(), -4))
	assert.True(t, log.Handler().Enabled(t.Context(), 0))
}
