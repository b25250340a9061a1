package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("no such row")

	cases := []struct {
		err  error
		kind Kind
	}{
		{NotFound("op", cause), KindNotFound},
		{Invalid("op", cause), KindValidation},
		{Transport("op", cause), KindTransport},
	}
	for i, tc := range cases {
		if got := KindOf(tc.err); got != tc.kind {
			t.Fatalf("case %d expected kind %v, got %v", i, tc.kind, got)
		}
		if !errors.Is(tc.err, cause) {
			t.Fatalf("case %d expected cause to unwrap", i)
		}
	}
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("resolve debt: %w", NotFound("rest.GetDebt", errors.New("status 404")))
	if !IsNotFound(err) {
		t.Fatalf("expected wrapped not-found to be detected")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", KindOf(err))
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindTransport {
		t.Fatalf("plain errors expected to default to transport")
	}
}
