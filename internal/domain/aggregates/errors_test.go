package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapAndCodeOf(t *testing.T) {
	if Wrap(CodeConflict, "plan.replace", nil) != nil {
		t.Fatalf("expected nil for nil cause")
	}
	cause := errors.New("lock wait")
	err := fmt.Errorf("process scan: %w", Wrap(CodeRetryable, "scan.complete", cause))
	if CodeOf(err) != CodeRetryable || !Retryable(err) {
		t.Fatalf("expected retryable, got %q", CodeOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost from chain")
	}
	if got := Wrap(CodeConflict, "plan.replace", cause).Error(); got != "plan.replace: lock wait [conflict]" {
		t.Fatalf("Error() = %q", got)
	}
	if CodeOf(cause) != "" || Retryable(cause) {
		t.Fatalf("plain error should carry no code")
	}
}
