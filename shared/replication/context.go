// Package replication provides the ownership model for cross-node game
// state: a session role context and single-writer replicated value cells.
// Every replicated datum has exactly one writer (the authority, or the
// owning client for its own avatar transform) and many readers; the cells
// here enforce the authority side of that partition explicitly instead of
// relying on an inherited networked-entity base.
package replication

// Role identifies how this process participates in a session. It is chosen
// by session bootstrap; the core only ever asks IsAuthority.
type Role int

const (
	// RoleParticipant is a remote player process: reads replicated state,
	// owns only its avatar transform.
	RoleParticipant Role = iota
	// RoleHostAuthority is a player process that also runs the canonical
	// simulation.
	RoleHostAuthority
	// RoleDedicatedAuthority runs the canonical simulation without a local
	// participant.
	RoleDedicatedAuthority
)

func (r Role) String() string {
	switch r {
	case RoleParticipant:
		return "participant"
	case RoleHostAuthority:
		return "host-authority"
	case RoleDedicatedAuthority:
		return "dedicated-authority"
	default:
		return "unknown"
	}
}

// Context carries the session role for one process. A single Context is
// constructed by session bootstrap and passed to every component that
// needs an authority check — there is no global instance.
type Context struct {
	role Role
}

func NewContext(role Role) *Context {
	return &Context{role: role}
}

func (c *Context) Role() Role {
	if c == nil {
		return RoleParticipant
	}
	return c.role
}

// IsAuthority reports whether writes from this process are canonical.
func (c *Context) IsAuthority() bool {
	if c == nil {
		return false
	}
	return c.role == RoleHostAuthority || c.role == RoleDedicatedAuthority
}
