package access

const (
	TierOwner = "owner"
	TierAdmin = "admin"
	TierStaff = "staff"
)

// Tier is one named level of the bot staff roster.
type Tier struct {
	Name    string
	members map[string]struct{}
}

func newTier(name string, ids []string) Tier {
	t := Tier{Name: name, members: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			t.members[id] = struct{}{}
		}
	}
	return t
}

// Has reports whether id belongs to the tier.
func (t Tier) Has(id string) bool {
	_, ok := t.members[id]
	return ok
}

// Len returns the number of members in the tier.
func (t Tier) Len() int {
	return len(t.members)
}

// Roster is the process-wide bot staff list, ordered from most to least privileged.
type Roster struct {
	tiers [3]Tier
}

// NewRoster builds a roster from the three configured id lists.
func NewRoster(owners, admins, staff []string) Roster {
	return Roster{tiers: [3]Tier{
		newTier(TierOwner, owners),
		newTier(TierAdmin, admins),
		newTier(TierStaff, staff),
	}}
}

// Tiers returns the tiers in privilege order.
func (r Roster) Tiers() []Tier {
	return r.tiers[:]
}

func (r Roster) owners() Tier { return r.tiers[0] }
func (r Roster) admins() Tier { return r.tiers[1] }

// RosterSource supplies the current roster on every check.
type RosterSource interface {
	Roster() Roster
}

// StaticRoster serves a fixed roster.
type StaticRoster Roster

func (s StaticRoster) Roster() Roster { return Roster(s) }

// RosterFunc adapts a function to RosterSource.
type RosterFunc func() Roster

func (f RosterFunc) Roster() Roster { return f() }
