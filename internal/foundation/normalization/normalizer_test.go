package normalization

import "testing"

type mode string

const (
	modeFixed  mode = "fixed"
	modeLinear mode = "linear"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(map[string]mode{"fixed": modeFixed, "linear": modeLinear}, modeLinear)

	tests := []struct {
		name  string
		input string
		want  mode
	}{
		{"exact", "fixed", modeFixed},
		{"case insensitive", "FIXED", modeFixed},
		{"padded", "  linear ", modeLinear},
		{"unknown falls back", "quadratic", modeLinear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := NewNormalizer(map[string]mode{"fixed": modeFixed, "linear": modeLinear}, modeLinear)
	if _, err := n.NormalizeWithError("nope"); err == nil {
		t.Fatal("expected error for unknown value")
	}
	got, err := n.NormalizeWithError(" Fixed")
	if err != nil || got != modeFixed {
		t.Fatalf("NormalizeWithError = %v, %v", got, err)
	}
	if keys := n.ValidKeys(); len(keys) != 2 || keys[0] != "fixed" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
