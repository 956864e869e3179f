package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Scope", KeyScope, "exhibitions-sync", Scope("exhibitions-sync")},
		{"Stage", KeyStage, "fetch", Stage("fetch")},
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"ExhibitionID", KeyExhibitionID, "ex-1", ExhibitionID("ex-1")},
		{"ArtworkID", KeyArtworkID, "a-1", ArtworkID("a-1")},
		{"DriveFileID", KeyDriveFileID, "abcdefghij", DriveFileID("abcdefghij")},
		{"WarningType", KeyWarningType, "INVALID_URL", WarningType("INVALID_URL")},
		{"URL", KeyURL, "https://example.com", URL("https://example.com")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Status", KeyStatus, "fallback", Status("fallback")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Errorf("%s: key = %q, want %q", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Errorf("%s: value = %q, want %q", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Row(4); a.Key != KeyRow || a.Value.Int64() != 4 {
		t.Errorf("Row attr mismatch: %v", a)
	}
	if a := SizeBytes(1024); a.Key != KeySizeBytes || a.Value.Int64() != 1024 {
		t.Errorf("SizeBytes attr mismatch: %v", a)
	}
	if a := DurationMS(12.5); a.Key != KeyDurationMS || a.Value.Float64() != 12.5 {
		t.Errorf("DurationMS attr mismatch: %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Errorf("nil error should produce empty value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Errorf("unexpected error value %q", a.Value.String())
	}
}
