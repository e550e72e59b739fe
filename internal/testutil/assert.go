// Package testutil provides shared test helpers for the mindchess packages.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/benbeisheim/mindchess/internal/model"
)

// SortSquares orders squares by row then column so that generation order
// does not matter in comparisons.
var SortSquares = cmpopts.SortSlices(func(a, b model.Square) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
})

// AssertEqual compares got and want using cmp.Diff and reports differences.
func AssertEqual(t *testing.T, got, want interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		reportDiff(t, diff, msgAndArgs...)
	}
}

// AssertSquares compares two square lists ignoring order.
func AssertSquares(t *testing.T, got, want []model.Square, msgAndArgs ...interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got, SortSquares, cmpopts.EquateEmpty()); diff != "" {
		reportDiff(t, diff, msgAndArgs...)
	}
}

// AssertSquaresf is AssertSquares with a formatted failure message.
func AssertSquaresf(t *testing.T, got, want []model.Square, format string, args ...interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got, SortSquares, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("%s: mismatch (-want +got):\n%s", fmt.Sprintf(format, args...), diff)
	}
}

func reportDiff(t *testing.T, diff string, msgAndArgs ...interface{}) {
	t.Helper()
	if msg := formatMessage(msgAndArgs...); msg != "" {
		t.Errorf("%s: mismatch (-want +got):\n%s", msg, diff)
		return
	}
	t.Errorf("mismatch (-want +got):\n%s", diff)
}

func formatMessage(msgAndArgs ...interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
