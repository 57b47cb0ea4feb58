package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/axon/internal/access"
	"github.com/keshon/axon/internal/config"
	"github.com/keshon/axon/internal/dispatch"
	"github.com/keshon/axon/internal/metrics"
	"github.com/keshon/axon/internal/storage"
	"github.com/keshon/axon/internal/version"
	"github.com/keshon/axon/internal/webhook"
)

type memberSource interface {
	Member(guildID, userID string) (access.Member, error)
}

type modStore interface {
	ModConfig(guildID string) (access.ModConfig, error)
}

// Bot wires a Discord session to the resolver, the dispatcher and the
// webhook notifier.
type Bot struct {
	dg         *discordgo.Session
	members    memberSource
	mods       modStore
	resolver   *access.Resolver
	dispatcher *dispatch.Dispatcher
	notifier   *webhook.Notifier
	log        zerolog.Logger
}

// NewBot creates the session and its helpers. Nothing connects until Run.
func NewBot(cfg *config.Config, store *storage.Storage, tpl *config.Template, logger zerolog.Logger, m *metrics.Metrics) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	client := NewClient(dg)
	resolver := access.NewResolver(access.StaticRoster(cfg.Roster()), nil)

	return &Bot{
		dg:         dg,
		members:    client,
		mods:       store,
		resolver:   resolver,
		dispatcher: dispatch.New(client, resolver, tpl, logger, m),
		notifier:   webhook.New(dg, cfg.Webhooks(), client.Self, logger, m),
		log:        logger.With().Str("component", "bot").Logger(),
	}, nil
}

func (b *Bot) Resolver() *access.Resolver       { return b.resolver }
func (b *Bot) Dispatcher() *dispatch.Dispatcher { return b.dispatcher }
func (b *Bot) Notifier() *webhook.Notifier      { return b.notifier }

// Run opens the gateway connection and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, cleaning up")

	b.dispatcher.Close()
	b.notifier.Wait()
	return nil
}

// IsModerator resolves a member and checks it against the guild's stored
// moderator configuration.
func (b *Bot) IsModerator(guildID, userID string) (bool, error) {
	member, err := b.members.Member(guildID, userID)
	if err != nil {
		return false, err
	}
	cfg, err := b.mods.ModConfig(guildID)
	if err != nil {
		return false, err
	}
	return b.resolver.IsGuildModerator(member, cfg), nil
}

// ReportError notifies the origin channel through the dispatcher and mirrors
// categorized failures to the error webhook.
func (b *Bot) ReportError(ctx context.Context, msg *discordgo.Message, err error, category dispatch.ErrorCategory, text string) error {
	reported := b.dispatcher.ReportError(ctx, msg, err, category, text)

	var ce *dispatch.CategorizedError
	if errors.As(reported, &ce) {
		embed := &discordgo.MessageEmbed{
			Title:       category.Label() + " error",
			Description: ce.Error(),
			Color:       0xE74C3C,
		}
		if msg != nil {
			embed.Fields = []*discordgo.MessageEmbedField{
				{Name: "Guild", Value: orDash(msg.GuildID), Inline: true},
				{Name: "Channel", Value: orDash(msg.ChannelID), Inline: true},
			}
		}
		b.notifier.Trigger(webhook.KindError, embed, "")
	}
	return reported
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msgf("%s is running", version.AppName)

	b.notifier.Trigger(webhook.KindStatus, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Ready in %d guilds. Version %s.", len(r.Guilds), version.Version),
		Color:       0x2ECC71,
	}, "")
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	b.log.Debug().Str("guild_id", g.ID).Str("guild", g.Name).Msg("guild available")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
