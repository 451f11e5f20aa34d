package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/connection-matcher/backend/internal/export"
)

func TestWorkbook(t *testing.T) {
	rows := []export.Row{
		{Name: "Dana Ellis", Employment: "chief engineer", BoardService: "robotics club", Score: 1.0, Rank: 1},
		{Name: "Mia Cho", Employment: "counsel", BoardService: "legal aid", Score: 0.82, Rank: 2},
	}

	buf, err := export.Workbook(rows)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer workbook.Close()

	got, err := workbook.GetRows("Matches")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"Name", "Employment", "Board Service", "Match Score", "Rank"}, got[0])
	assert.Equal(t, "Dana Ellis", got[1][0])
	assert.Equal(t, "robotics club", got[1][2])
	assert.Equal(t, "1", got[1][4])
	assert.Equal(t, "Mia Cho", got[2][0])
}

func TestWorkbookEmpty(t *testing.T) {
	buf, err := export.Workbook(nil)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer workbook.Close()

	got, err := workbook.GetRows("Matches")
	require.NoError(t, err)
	require.Len(t, got, 1) // header only
}
