package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/axon/internal/access"
)

// Client adapts a discordgo session to the permission and dispatch
// interfaces. State is consulted first, REST second.
type Client struct {
	s *discordgo.Session
}

func NewClient(s *discordgo.Session) *Client {
	return &Client{s: s}
}

// SelfID returns the bot user id once the session is ready.
func (c *Client) SelfID() string {
	if c.s.State == nil || c.s.State.User == nil {
		return ""
	}
	return c.s.State.User.ID
}

// Self returns the bot user, or nil before the session is ready.
func (c *Client) Self() *discordgo.User {
	if c.s.State == nil {
		return nil
	}
	return c.s.State.User
}

func (c *Client) ChannelPermissions(channelID, userID string) (int64, error) {
	if userID == "" {
		return 0, errors.New("discord: unknown user")
	}
	return c.s.UserChannelPermissions(userID, channelID)
}

func (c *Client) CreateMessage(ctx context.Context, channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return c.s.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(ctx))
}

func (c *Client) EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	return c.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return c.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (c *Client) DirectChannel(ctx context.Context, userID string) (*discordgo.Channel, error) {
	return c.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
}

// Member resolves a guild member together with its guild-level permissions.
func (c *Client) Member(guildID, userID string) (access.Member, error) {
	guild, err := c.s.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = c.s.Guild(guildID)
		if err != nil {
			return access.Member{}, fmt.Errorf("discord: fetching guild %s: %w", guildID, err)
		}
	}

	member, err := c.s.State.Member(guildID, userID)
	if err != nil || member == nil {
		member, err = c.s.GuildMember(guildID, userID)
		if err != nil {
			return access.Member{}, fmt.Errorf("discord: fetching member %s: %w", userID, err)
		}
	}

	return access.Member{
		ID:          userID,
		Roles:       member.Roles,
		Permissions: memberPermissions(guild, userID, member.Roles),
	}, nil
}
