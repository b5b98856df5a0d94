package hierarchy

import "errors"

// HierarchyErrorKind tags the concrete failure behind a *HierarchyError (§7).
type HierarchyErrorKind uint8

const (
	DuplicateGraphId HierarchyErrorKind = iota
	UnknownGraphId
	CycleIntroduced
	PathsDoNotCommute
)

func (k HierarchyErrorKind) String() string {
	switch k {
	case DuplicateGraphId:
		return "DuplicateGraphId"
	case UnknownGraphId:
		return "UnknownGraphId"
	case CycleIntroduced:
		return "CycleIntroduced"
	case PathsDoNotCommute:
		return "PathsDoNotCommute"
	default:
		return "Unknown"
	}
}

// HierarchyError is the §7 HierarchyError{DuplicateGraphId, UnknownGraphId,
// CycleIntroduced, PathsDoNotCommute} tag.
type HierarchyError struct {
	Kind    HierarchyErrorKind
	GraphID string
	Detail  string
}

func (e *HierarchyError) Error() string {
	msg := "hierarchy: " + e.Kind.String()
	if e.GraphID != "" {
		msg += " " + e.GraphID
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets callers use errors.Is(err, ErrDuplicateGraphId) style sentinels
// while still carrying structured context.
func (e *HierarchyError) Is(target error) bool {
	switch e.Kind {
	case DuplicateGraphId:
		return target == ErrDuplicateGraphId
	case UnknownGraphId:
		return target == ErrUnknownGraphId
	case CycleIntroduced:
		return target == ErrCycleIntroduced
	case PathsDoNotCommute:
		return target == ErrPathsDoNotCommute
	}
	return false
}

// Sentinels usable with errors.Is against any *HierarchyError of that Kind.
var (
	ErrDuplicateGraphId  = errors.New("hierarchy: duplicate graph id")
	ErrUnknownGraphId    = errors.New("hierarchy: unknown graph id")
	ErrCycleIntroduced   = errors.New("hierarchy: typing would introduce a cycle")
	ErrPathsDoNotCommute = errors.New("hierarchy: composed typing paths do not commute")
)
