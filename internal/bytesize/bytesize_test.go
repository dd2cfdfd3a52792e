package bytesize

import (
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input ByteSize
		want  string
	}{
		{"zero", 0, "0B"},
		{"bytes", 512, "512B"},
		{"one KiB", KiB, "1.00KiB"},
		{"fractional MiB", 1536 * KiB, "1.50MiB"},
		{"ten GiB", 10 * GiB, "10.00GiB"},
		{"volume-sized", 100 * GiB, "100.00GiB"},
		{"TiB", 2 * TiB, "2.00TiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.String(); got != tt.want {
				t.Errorf("ByteSize(%d).String() = %q, want %q", uint64(tt.input), got, tt.want)
			}
		})
	}
}

func TestUint64(t *testing.T) {
	if got := (10 * GiB).Uint64(); got != 10737418240 {
		t.Errorf("Uint64() = %d, want 10737418240", got)
	}
}
