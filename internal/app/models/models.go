package models

import (
	"fmt"
	"strconv"
	"strings"
)

// AllocationStatus is the TA allocation state of a student.
type AllocationStatus int

const (
	StatusUnallocated AllocationStatus = 0
	StatusAllocated   AllocationStatus = 1
	StatusFrozen      AllocationStatus = 2
)

// String returns the lowercase name of the status
func (s AllocationStatus) String() string {
	switch s {
	case StatusUnallocated:
		return "unallocated"
	case StatusAllocated:
		return "allocated"
	case StatusFrozen:
		return "frozen"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// Valid reports whether s is one of the known statuses
func (s AllocationStatus) Valid() bool {
	return s == StatusUnallocated || s == StatusAllocated || s == StatusFrozen
}

// ParseAllocationStatus accepts either the numeric form ("0", "1", "2") or the name.
func ParseAllocationStatus(v string) (AllocationStatus, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if n, err := strconv.Atoi(v); err == nil {
		s := AllocationStatus(n)
		if s.Valid() {
			return s, nil
		}
		return 0, fmt.Errorf("unknown allocation status %q", v)
	}
	switch v {
	case "unallocated":
		return StatusUnallocated, nil
	case "allocated":
		return StatusAllocated, nil
	case "frozen", "freezed":
		return StatusFrozen, nil
	}
	return 0, fmt.Errorf("unknown allocation status %q", v)
}

// LogAction is the action recorded on an audit log entry
type LogAction string

const (
	ActionAllocated   LogAction = "Allocated"
	ActionDeallocated LogAction = "Deallocated"
)
