package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casadesk/brochure-search/internal/core/domain"
)

func captureCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	return cmd, buf
}

func TestOutputSearchTable(t *testing.T) {
	cmd, buf := captureCmd()

	err := outputSearchTable(cmd, []domain.QueryResult{
		{Source: "marina.pdf", ChunkID: 2, Text: "Payment plans available.", Score: 0.912},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[1] marina.pdf, chunk 2 (0.912)")
	assert.Contains(t, out, "Payment plans available.")
}

func TestOutputSearchTable_Empty(t *testing.T) {
	cmd, buf := captureCmd()

	require.NoError(t, outputSearchTable(cmd, nil))
	assert.Contains(t, buf.String(), "No relevant brochures found.")
}

func TestOutputSearchJSON(t *testing.T) {
	cmd, buf := captureCmd()

	err := outputSearchJSON(cmd, []domain.QueryResult{
		{Source: "marina.pdf", ChunkID: 1, Text: "sea view", Score: 0.8},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"Source": "marina.pdf"`)
	assert.Contains(t, out, `"ChunkID": 1`)
}
