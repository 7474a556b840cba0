package domain

import "fmt"

// Role is the coarse account type. It is fixed at registration and only a
// privileged actor may change it afterwards.
type Role string

const (
	RoleUser  Role = "User"
	RoleAgent Role = "Agent"
	RoleAdmin Role = "Admin"
)

// ParseRole accepts the canonical role names only.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAgent, RoleAdmin:
		return r, nil
	}
	return "", Invalid("role", fmt.Sprintf("must be one of User, Agent, Admin (got %q)", s))
}

func (r Role) String() string { return string(r) }

// Capability is a bit set of operations on an aggregate kind.
type Capability uint8

const (
	CapRead Capability = 1 << iota
	CapWrite
	CapDelete
	// CapAny extends Write and Delete to instances created by others.
	CapAny

	CapNone Capability = 0
	CapAll             = CapRead | CapWrite | CapDelete | CapAny
)

// Has reports whether every bit of want is present.
func (c Capability) Has(want Capability) bool { return c&want == want }

// Aggregate kinds, also used as cache key namespaces.
const (
	KindAccount  = "account"
	KindProperty = "property"
	KindContact  = "contact"
)

var policy = map[Role]map[string]Capability{
	RoleAdmin: {
		KindAccount:  CapAll,
		KindProperty: CapAll,
		KindContact:  CapAll,
	},
	RoleAgent: {
		KindProperty: CapRead | CapWrite | CapDelete,
		KindContact:  CapRead,
	},
	RoleUser: {
		KindProperty: CapRead,
	},
}

// CapabilitiesFor returns what role may do on kind across all instances.
// Access to one's own account is checked by the services on top of this.
// Write and Delete without CapAny are limited to listings the actor created.
func CapabilitiesFor(role Role, kind string) Capability {
	return policy[role][kind]
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	AccountID string
	Username  string
	Role      Role
}

// Can reports whether the actor holds want on kind.
func (a Actor) Can(kind string, want Capability) bool {
	return CapabilitiesFor(a.Role, kind).Has(want)
}
