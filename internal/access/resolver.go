// Package access answers authorization questions for the bot: channel
// capabilities, bot staff tiers and per-guild admin/moderator status.
// Nothing here performs network I/O or mutates state.
package access

import "slices"

// Member is a guild member with its guild-level permission bitfield.
type Member struct {
	ID          string
	Roles       []string
	Permissions int64
}

// ModConfig is a guild's moderator configuration.
type ModConfig struct {
	Users []string `json:"mod_users"`
	Roles []string `json:"mod_roles"`
}

// PermissionSource resolves permission bits of a user within a channel.
type PermissionSource interface {
	SelfID() string
	ChannelPermissions(channelID, userID string) (int64, error)
}

// Resolver holds the collaborators needed for authorization checks.
type Resolver struct {
	roster    RosterSource
	adminCaps []Capability
}

// NewResolver creates a Resolver. A nil adminCaps uses DefaultAdminCapabilities.
func NewResolver(roster RosterSource, adminCaps []Capability) *Resolver {
	if roster == nil {
		roster = StaticRoster{}
	}
	if adminCaps == nil {
		adminCaps = DefaultAdminCapabilities
	}
	return &Resolver{roster: roster, adminCaps: adminCaps}
}

// HasChannelCapabilities reports whether actorID holds every required
// capability in the channel. An empty actorID checks the bot itself.
func (r *Resolver) HasChannelCapabilities(src PermissionSource, channelID, actorID string, required ...Capability) bool {
	if len(required) == 0 {
		return true
	}
	if actorID == "" {
		actorID = src.SelfID()
	}
	perms, err := src.ChannelPermissions(channelID, actorID)
	if err != nil {
		return false
	}
	for _, c := range required {
		if !c.In(perms) {
			return false
		}
	}
	return true
}

// MissingCapabilities lists every required capability the member lacks, in input order.
func (r *Resolver) MissingCapabilities(m Member, required ...Capability) []Capability {
	var missing []Capability
	for _, c := range required {
		if !c.In(m.Permissions) {
			missing = append(missing, c)
		}
	}
	return missing
}

// HasAllCapabilities reports whether the member lacks none of required.
func (r *Resolver) HasAllCapabilities(m Member, required ...Capability) bool {
	return len(r.MissingCapabilities(m, required...)) == 0
}

func (r *Resolver) IsBotOwner(id string) bool {
	return r.roster.Roster().owners().Has(id)
}

// IsBotAdmin is true for admins and owners.
func (r *Resolver) IsBotAdmin(id string) bool {
	roster := r.roster.Roster()
	return roster.owners().Has(id) || roster.admins().Has(id)
}

// IsBotStaff is true for a member of any roster tier.
func (r *Resolver) IsBotStaff(id string) bool {
	return r.Tier(id) != ""
}

// Tier returns the name of the highest tier holding id, or "".
func (r *Resolver) Tier(id string) string {
	for _, t := range r.roster.Roster().Tiers() {
		if t.Has(id) {
			return t.Name
		}
	}
	return ""
}

// IsGuildAdmin reports whether the member holds any administrative capability.
func (r *Resolver) IsGuildAdmin(m Member) bool {
	for _, c := range r.adminCaps {
		if c.In(m.Permissions) {
			return true
		}
	}
	return false
}

// IsGuildModerator checks configured moderator users, then moderator roles,
// then falls back to IsGuildAdmin.
func (r *Resolver) IsGuildModerator(m Member, cfg ModConfig) bool {
	if slices.Contains(cfg.Users, m.ID) {
		return true
	}
	for _, role := range cfg.Roles {
		if slices.Contains(m.Roles, role) {
			return true
		}
	}
	return r.IsGuildAdmin(m)
}
