package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	Name  string `json:"name" yaml:"name"`
	State string `json:"state" yaml:"state"`
}

func TestPrintJSON(t *testing.T) {
	data := testEntry{Name: "node1", State: "Up"}

	var buf bytes.Buffer
	err := PrintJSON(&buf, data)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `"name": "node1"`)
	assert.Contains(t, output, `"state": "Up"`)
}

func TestPrintJSONArray(t *testing.T) {
	data := []testEntry{
		{Name: "node1", State: "Up"},
		{Name: "node2", State: "Paused"},
	}

	var buf bytes.Buffer
	err := PrintJSON(&buf, data)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `"name": "node1"`)
	assert.Contains(t, output, `"name": "node2"`)
}
