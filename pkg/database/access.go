package database

// AccessLevel selects which database role a data access call executes under.
type AccessLevel int

const (
	// AccessRestricted is the default level. Row-level security applies.
	AccessRestricted AccessLevel = iota
	// AccessElevated bypasses row-level security. Used only for reference
	// data seeding and administrative lookups.
	AccessElevated
)

func (l AccessLevel) String() string {
	if l == AccessElevated {
		return "elevated"
	}
	return "restricted"
}
