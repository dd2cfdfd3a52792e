package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableData(t *testing.T) {
	table := NewTableData("Name", "State", "Owner")

	assert.Equal(t, []string{"Name", "State", "Owner"}, table.Headers())
	assert.Empty(t, table.Rows())

	table.AddRow("ip-addr", "Online", "node1")
	table.AddRow("disk-w", "Offline", "node2")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ip-addr", "Online", "node1"}, rows[0])
	assert.Equal(t, []string{"disk-w", "Offline", "node2"}, rows[1])
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("Node", "State")
	table.AddRow("node1", "Up")
	table.AddRow("node2", "Paused")

	var buf bytes.Buffer
	err := PrintTable(&buf, table)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "NODE")
	assert.Contains(t, output, "STATE")
	assert.Contains(t, output, "node1")
	assert.Contains(t, output, "Up")
	assert.Contains(t, output, "node2")
	assert.Contains(t, output, "Paused")
}

func TestSimpleTable(t *testing.T) {
	pairs := [][2]string{
		{"Volume", "Volume1"},
		{"Mount", `C:\ClusterStorage\Volume1`},
		{"State", "Online"},
	}

	var buf bytes.Buffer
	err := SimpleTable(&buf, pairs)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Volume1")
	assert.Contains(t, output, `C:\ClusterStorage\Volume1`)
	assert.Contains(t, output, "Online")
}
