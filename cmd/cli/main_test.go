package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsplit/adapters/excel"
	"sheetsplit/domain/sheet"
)

func writeWorkbook(t *testing.T, rows int) string {
	t.Helper()
	data := make([]sheet.Row, rows)
	for i := range data {
		data[i] = sheet.Row{fmt.Sprintf("r%d", i+1)}
	}
	payload, err := excel.NewWriter(excel.DefaultWriterConfig(), nil).Encode([]string{"col"}, data)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, os.WriteFile(path, payload, 0o644))
	return path
}

func TestPlanCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newPlanCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeWorkbook(t, 30)})

	require.NoError(t, cmd.Execute())
	text := out.String()
	assert.Contains(t, text, "Data rows: 30 (kept 21)")
	assert.Contains(t, text, "1.xlsx")
	assert.Contains(t, text, "3.xlsx")
}

func TestPlanCommandEmptySheet(t *testing.T) {
	var out bytes.Buffer
	cmd := newPlanCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeWorkbook(t, 0)})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "nothing to split")
	assert.NotContains(t, out.String(), "1.xlsx")
}

func TestPlanCommandRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))

	cmd := newPlanCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})
	assert.Error(t, cmd.Execute())
}
