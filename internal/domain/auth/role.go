package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Canonical role names. Comparisons are case-insensitive; these constants are
// the lowercase forms the rest of the system uses.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// DefaultRoleName is assigned when a role cannot be resolved from its input.
const DefaultRoleName = RoleStudent

// RoleRecord is the structured role shape returned by the learning API.
type RoleRecord struct {
	ID          string    `json:"id,omitempty"`
	RoleName    string    `json:"roleName"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Role is the authorization role attached to an identity. The learning API
// serializes it either as a bare string ("admin") or as a structured record
// ({"roleName": "admin", ...}); both forms decode into this one type so no
// call site ever branches on the wire shape.
type Role struct {
	plain      string
	structured *RoleRecord
}

// PlainRole wraps a bare role name.
func PlainRole(name string) Role {
	return Role{plain: name}
}

// StructuredRole wraps a structured role record.
func StructuredRole(rec RoleRecord) Role {
	return Role{structured: &rec}
}

// Name resolves the canonical role name: the plain value as-is, the record's
// roleName for the structured form, and DefaultRoleName when neither is set.
func (r Role) Name() string {
	switch {
	case r.plain != "":
		return r.plain
	case r.structured != nil && r.structured.RoleName != "":
		return r.structured.RoleName
	default:
		return DefaultRoleName
	}
}

// Is reports whether the role resolves to candidate, case-insensitively.
func (r Role) Is(candidate string) bool {
	return strings.EqualFold(r.Name(), candidate)
}

// Record returns the structured record and whether one is present.
func (r Role) Record() (RoleRecord, bool) {
	if r.structured == nil {
		return RoleRecord{}, false
	}
	return *r.structured, true
}

// MarshalJSON preserves the original wire form: structured roles round-trip as
// records, everything else as a plain string.
func (r Role) MarshalJSON() ([]byte, error) {
	if r.structured != nil {
		return json.Marshal(r.structured)
	}
	return json.Marshal(r.Name())
}

// UnmarshalJSON accepts a string, a structured record, or null (which yields
// the default role).
func (r *Role) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Role{}
		return nil
	}

	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("unmarshal role name: %w", err)
		}
		*r = Role{plain: name}
		return nil
	case '{':
		var rec RoleRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("unmarshal role record: %w", err)
		}
		*r = Role{structured: &rec}
		return nil
	default:
		return fmt.Errorf("unmarshal role: unsupported JSON shape %q", string(data))
	}
}
