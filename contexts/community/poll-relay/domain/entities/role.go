package entities

// Role is the authorization tier resolved for a participant. Tiers form a
// total order; the relay only accepts polls from RoleResident and above.
type Role int

const (
	RoleGuest Role = iota
	RoleResident
	RoleAdmin
)

// Meets reports whether the role satisfies the minimum tier.
func (r Role) Meets(min Role) bool { return r >= min }

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleResident:
		return "resident"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}
