package models

import (
	"strings"

	"github.com/google/uuid"
)

// AllocatorKind identifies who performed an allocation transition.
type AllocatorKind int

const (
	AllocatorAdmin AllocatorKind = iota
	AllocatorCoordinator
	AllocatorProfessor
)

// Role tags sent by clients. Matching is exact.
const (
	RoleJM        = "jm"
	RoleProfessor = "professor"
)

// AdminEmailID is recorded as userEmailId for any allocator that is not a JM or professor.
const AdminEmailID = "admin"

// Allocator is the resolved identity of the caller of an allocation transition.
// Role keeps the tag exactly as the client sent it.
type Allocator struct {
	Role string
	Kind AllocatorKind
	ID   uuid.UUID // zero for admins or when the supplied id is not a uuid
}

// NewAllocator classifies a role tag. Only the exact tags "jm" and "professor"
// are looked up; anything else is an admin. An id that does not parse leaves
// the identity unresolved instead of failing the request.
func NewAllocator(role, id string) Allocator {
	a := Allocator{Role: role, Kind: AllocatorAdmin}
	switch role {
	case RoleJM:
		a.Kind = AllocatorCoordinator
	case RoleProfessor:
		a.Kind = AllocatorProfessor
	default:
		return a
	}
	if parsed, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
		a.ID = parsed
	}
	return a
}

// NeedsLookup reports whether an email must be looked up for this allocator
func (a Allocator) NeedsLookup() bool {
	return a.Kind != AllocatorAdmin && a.ID != uuid.Nil
}

func (k AllocatorKind) String() string {
	switch k {
	case AllocatorCoordinator:
		return "coordinator"
	case AllocatorProfessor:
		return "professor"
	default:
		return "admin"
	}
}
