package access

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Capability is a single Discord permission bit.
type Capability int64

const (
	SendMessages    Capability = Capability(discordgo.PermissionSendMessages)
	EmbedLinks      Capability = Capability(discordgo.PermissionEmbedLinks)
	ManageMessages  Capability = Capability(discordgo.PermissionManageMessages)
	MentionEveryone Capability = Capability(discordgo.PermissionMentionEveryone)
	Administrator   Capability = Capability(discordgo.PermissionAdministrator)
	ManageGuild     Capability = Capability(discordgo.PermissionManageGuild)
	ManageRoles     Capability = Capability(discordgo.PermissionManageRoles)
	ManageChannels  Capability = Capability(discordgo.PermissionManageChannels)
	KickMembers     Capability = Capability(discordgo.PermissionKickMembers)
	BanMembers      Capability = Capability(discordgo.PermissionBanMembers)
)

// DefaultAdminCapabilities is the set of capabilities that make a member a guild admin.
var DefaultAdminCapabilities = []Capability{
	Administrator,
	ManageGuild,
	ManageRoles,
	ManageChannels,
	KickMembers,
	BanMembers,
}

var capabilityNames = map[Capability]string{
	Capability(discordgo.PermissionCreateInstantInvite): "Create Instant Invite",
	Capability(discordgo.PermissionKickMembers):         "Kick Members",
	Capability(discordgo.PermissionBanMembers):          "Ban Members",
	Capability(discordgo.PermissionAdministrator):       "Administrator",
	Capability(discordgo.PermissionManageChannels):      "Manage Channels",
	Capability(discordgo.PermissionManageGuild):         "Manage Server",
	Capability(discordgo.PermissionAddReactions):        "Add Reactions",
	Capability(discordgo.PermissionViewAuditLogs):       "View Audit Logs",
	Capability(discordgo.PermissionViewChannel):         "View Channel",
	Capability(discordgo.PermissionSendMessages):        "Send Messages",
	Capability(discordgo.PermissionSendTTSMessages):     "Send TTS Messages",
	Capability(discordgo.PermissionManageMessages):      "Manage Messages",
	Capability(discordgo.PermissionEmbedLinks):          "Embed Links",
	Capability(discordgo.PermissionAttachFiles):         "Attach Files",
	Capability(discordgo.PermissionReadMessageHistory):  "Read Message History",
	Capability(discordgo.PermissionMentionEveryone):     "Mention Everyone",
	Capability(discordgo.PermissionUseExternalEmojis):   "Use External Emojis",
	Capability(discordgo.PermissionManageThreads):       "Manage Threads",
	Capability(discordgo.PermissionManageNicknames):     "Manage Nicknames",
	Capability(discordgo.PermissionManageRoles):         "Manage Roles",
	Capability(discordgo.PermissionManageWebhooks):      "Manage Webhooks",
	Capability(discordgo.PermissionModerateMembers):     "Moderate Members",
}

// String returns the human-readable Discord name, or the hex bit when unknown.
func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", int64(c))
}

// In reports whether the bitfield holds c.
func (c Capability) In(perms int64) bool {
	return perms&int64(c) == int64(c)
}

// DescribeCapabilities joins capability names for user-facing messages.
func DescribeCapabilities(caps []Capability) string {
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
