package domain

import "fmt"

// FailurePolicy decides what happens to a run when a line cannot be parsed.
type FailurePolicy string

const (
	// FailFast aborts the run on the first bad line.
	FailFast FailurePolicy = "fail-fast"
	// SkipAndReport logs and counts bad lines, then continues.
	SkipAndReport FailurePolicy = "skip-and-report"
)

// ParseFailurePolicy validates a policy name.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case FailFast, SkipAndReport:
		return p, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (want %q or %q)", s, FailFast, SkipAndReport)
	}
}
