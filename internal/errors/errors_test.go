package errors

import (
	"errors"
	"testing"
	"time"
)

func TestMenuError_UnwrapsCause(t *testing.T) {
	cause := errors.New("downstream broke")
	err := &MenuError{Key: "A", Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestAggregateError_SingleVsMultiple(t *testing.T) {
	single := &AggregateError{Failures: []ChildFailure{{Name: "a", Err: errors.New("boom")}}}
	if single.Error() == "" {
		t.Fatal("expected a non-empty message")
	}

	multi := &AggregateError{Failures: []ChildFailure{
		{Name: "a", Err: errors.New("boom")},
		{Name: "b", Err: errors.New("bang")},
	}}
	if multi.Error() == single.Error() {
		t.Fatal("expected distinct messages for one vs. multiple failures")
	}
}

func TestCircuitBreakerOpenError_Message(t *testing.T) {
	err := &CircuitBreakerOpenError{Name: "demo", OpenUntil: time.Unix(0, 0).UTC()}
	if err.Error() == "" {
		t.Fatal("expected a non-empty message")
	}
}

func TestOptionAlreadyExistsError_Message(t *testing.T) {
	err := &OptionAlreadyExistsError{Key: "A"}
	if err.Error() == "" {
		t.Fatal("expected a non-empty message")
	}
}
