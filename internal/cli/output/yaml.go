package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// PrintYAML writes a listing or detail payload as YAML, the `-o yaml`
// rendering of every clusctl command.
func PrintYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
