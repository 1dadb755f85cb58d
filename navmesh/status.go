package navmesh

import "strings"

// Status is the bit set returned by mesh updates and queries.
type Status uint32

const (
	// High level status.
	StatusFailure Status = 1 << 31 // Operation failed.
	StatusSuccess Status = 1 << 30 // Operation succeed.

	// Detail information for status.
	StatusDetailMask          Status = 0x0ffffff
	StatusEmptyUpdate         Status = 1 << 0 // Update bounds touched no node, nothing changed.
	StatusOpenBorder          Status = 1 << 1 // The border of the removed region did not close.
	StatusInsufficientPoints  Status = 1 << 2 // The reduced border is not a polygon.
	StatusTriangulationFailed Status = 1 << 3 // Triangulation failed or produced nothing.
	StatusInvalidParam        Status = 1 << 4 // An input parameter was invalid.
	StatusPartialResult       Status = 1 << 5 // Query did not reach the end location, returning best guess.
	StatusNoPath              Status = 1 << 6 // No node other than the start could be reached.
	StatusSplitBorder         Status = 1 << 7 // New points kept landing on edges of live neighbours.
)

// Returns true of status is success.
func (s Status) Succeed() bool {
	return (s & StatusSuccess) != 0
}

// Returns true of status is failure.
func (s Status) Failed() bool {
	return (s & StatusFailure) != 0
}

// Returns true if specific detail is set.
func (s Status) Detail(detail Status) bool {
	return (s & detail) != 0
}

var statusNames = []struct {
	flag Status
	name string
}{
	{StatusEmptyUpdate, "empty update"},
	{StatusOpenBorder, "open border"},
	{StatusInsufficientPoints, "insufficient points"},
	{StatusTriangulationFailed, "triangulation failed"},
	{StatusInvalidParam, "invalid param"},
	{StatusPartialResult, "partial result"},
	{StatusNoPath, "no path"},
	{StatusSplitBorder, "split border"},
}

func (s Status) String() string {
	parts := make([]string, 0, 4)
	switch {
	case s.Succeed():
		parts = append(parts, "success")
	case s.Failed():
		parts = append(parts, "failure")
	default:
		parts = append(parts, "unknown")
	}
	for _, n := range statusNames {
		if s.Detail(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ", ")
}
