package cdt

// Status is a bit set describing the outcome of a triangulation.
type Status uint32

const (
	// High level status.
	StatusFailure Status = 1 << 31 // Triangulation failed.
	StatusSuccess Status = 1 << 30 // Triangulation succeeded.

	// Detail information for status.
	StatusDetailMask       Status = 0x0ffffff
	StatusInvalidInput     Status = 1 << 0 // Too few points, bad index or non finite coordinate.
	StatusDegenerate       Status = 1 << 1 // No triangle could be formed.
	StatusConstraintFailed Status = 1 << 2 // A constraint edge could not be recovered.
	StatusDuplicatePoints  Status = 1 << 3 // Some input points were merged.
)

// Succeed returns true when the triangulation succeeded.
func (s Status) Succeed() bool { return s&StatusSuccess != 0 }

// Failed returns true when the triangulation failed.
func (s Status) Failed() bool { return s&StatusFailure != 0 }

// Detail returns true if the specific detail is set.
func (s Status) Detail(detail Status) bool { return s&detail != 0 }

func (s Status) String() string {
	var out string
	switch {
	case s.Succeed():
		out = "success"
	case s.Failed():
		out = "failure"
	default:
		out = "unknown"
	}
	for _, d := range []struct {
		flag Status
		name string
	}{
		{StatusInvalidInput, "invalid input"},
		{StatusDegenerate, "degenerate"},
		{StatusConstraintFailed, "constraint failed"},
		{StatusDuplicatePoints, "duplicate points"},
	} {
		if s.Detail(d.flag) {
			out += ", " + d.name
		}
	}
	return out
}
