package discord

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// memberPermissions computes guild-level permissions: the guild owner holds
// everything, otherwise the @everyone role and the member's roles are
// combined and Administrator expands to all permissions.
func memberPermissions(guild *discordgo.Guild, userID string, roles []string) int64 {
	if guild == nil {
		return 0
	}
	if userID == guild.OwnerID {
		return discordgo.PermissionAll
	}

	var perms int64
	for _, role := range guild.Roles {
		if role.ID == guild.ID || slices.Contains(roles, role.ID) {
			perms |= role.Permissions
		}
	}

	if perms&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator {
		perms |= discordgo.PermissionAll
	}
	return perms
}
