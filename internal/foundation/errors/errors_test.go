package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "config.yaml" {
			t.Errorf("expected context file=config.yaml, got %v", file)
		}
	})

	t.Run("Wrapped error is found through fmt wrapping", func(t *testing.T) {
		cause := stderrors.New("503 backend error")
		inner := SheetsError("fetch exhibition sheet").WithCause(cause).Build()
		outer := fmt.Errorf("load dataset: %w", inner)

		if !HasCategory(outer, CategorySheets) {
			t.Fatalf("expected sheets category through wrapping")
		}
		if !IsRetryable(outer) {
			t.Fatalf("sheets errors should be retryable")
		}
		if !stderrors.Is(outer, cause) {
			t.Fatalf("expected cause to be reachable")
		}
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := DriveError("download failed").Build()
		derived := base.WithContext("drive_file_id", "abc")
		if _, ok := base.Context().Get("drive_file_id"); ok {
			t.Fatalf("original context mutated")
		}
		if v, _ := derived.Context().GetString("drive_file_id"); v != "abc" {
			t.Fatalf("derived context missing value")
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	if ConfigError("x").Build().CanRetry() {
		t.Error("config errors must not be retryable")
	}
	if !ConfigError("x").Build().IsFatal() {
		t.Error("config errors must be fatal")
	}
	if AuthError("x").Build().CanRetry() {
		t.Error("auth errors require user action")
	}
	if DriveError("x").Build().Severity() != SeverityWarning {
		t.Error("drive errors should be warnings")
	}
	if GetCategory(stderrors.New("plain")) != CategoryInternal {
		t.Error("unclassified errors map to internal")
	}
}

func TestCLIErrorAdapterExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{stderrors.New("boom"), 1},
		{ValidationError("bad").Build(), 2},
		{AuthError("denied").Build(), 5},
		{ConfigError("missing").Build(), 7},
		{SheetsError("down").Build(), 8},
		{RenderError("template").Build(), 11},
		{HistoryError("db").Build(), 12},
	}
	for _, c := range cases {
		if got := a.ExitCodeFor(c.err); got != c.want {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestCLIErrorAdapterFormat(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	if got := quiet.FormatError(ConfigError("missing spreadsheet id").Build()); got != "Error: missing spreadsheet id" {
		t.Errorf("unexpected format %q", got)
	}
	if got := quiet.FormatError(RenderError("template failed").Build()); got != "Error: template failed (use -v for details)" {
		t.Errorf("unexpected format %q", got)
	}
	verbose := NewCLIErrorAdapter(true, nil)
	if got := verbose.FormatError(RenderError("template failed").Build()); got != "[render:fatal] template failed" {
		t.Errorf("unexpected verbose format %q", got)
	}
}

func TestCategoryExitCodeDefaults(t *testing.T) {
	if got := ErrorCategory("unknown").ExitCode(); got != 1 {
		t.Errorf("unknown category exit code = %d, want 1", got)
	}
	if got := CategoryNotFound.ExitCode(); got != 4 {
		t.Errorf("not_found exit code = %d, want 4", got)
	}
}
