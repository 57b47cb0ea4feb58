// Package dispatch validates, authorizes and submits outbound Discord
// messages.
//
// A send into a guild channel where the bot lacks Send Messages, or a rich
// send/edit where it lacks Embed Links, is not an error: the call returns
// a nil message and a nil error. Size violations fail with
// *ContentTooLargeError before any message is submitted. Errors from the
// Discord client are returned unchanged.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/axon/internal/access"
	"github.com/keshon/axon/internal/logging"
	"github.com/keshon/axon/internal/metrics"
	"github.com/keshon/axon/pkg/jobmgr"
	"github.com/keshon/axon/pkg/retrylimit"
)

// Client is the subset of the Discord client the pipeline needs.
type Client interface {
	access.PermissionSource
	CreateMessage(ctx context.Context, channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	DirectChannel(ctx context.Context, userID string) (*discordgo.Channel, error)
}

// Templates supplies the reply markers and the default error text.
type Templates interface {
	ErrorEmote() string
	SuccessEmote() string
	GeneralError() string
}

// Options tune a single send.
type Options struct {
	// AllowEveryone lets @everyone and @here ping. They are suppressed by default.
	AllowEveryone bool

	// AutoDelete removes the sent message after DeleteAfter, immediately when zero.
	AutoDelete  bool
	DeleteAfter time.Duration
}

const (
	opSend = "send"
	opEdit = "edit"
	opDM   = "direct"
)

type Dispatcher struct {
	client    Client
	resolver  *access.Resolver
	templates Templates
	log       zerolog.Logger
	metrics   *metrics.Metrics
	deletions *jobmgr.Manager
	limiter   *retrylimit.AdaptiveLimiter
}

// New creates a Dispatcher. m may be nil.
func New(client Client, resolver *access.Resolver, templates Templates, logger zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	d := &Dispatcher{
		client:    client,
		resolver:  resolver,
		templates: templates,
		log:       logger.With().Str("component", "dispatch").Logger(),
		metrics:   m,
		limiter:   retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
	}
	d.deletions = jobmgr.NewManager(func(status string) {
		logging.Verbose(&d.log).Str("job", status).Msg("deletion job")
	})
	return d
}

// Send submits content to channel. See the package doc for the nil, nil outcome.
func (d *Dispatcher) Send(ctx context.Context, channel *discordgo.Channel, content any, opts Options) (*discordgo.Message, error) {
	if channel == nil {
		return nil, errors.New("dispatch: nil channel")
	}
	guild := channel.GuildID != ""

	if guild && !d.botCan(channel.ID, access.SendMessages) {
		d.suppressed(opSend, channel.GuildID, channel.ID, access.SendMessages)
		return nil, nil
	}

	c, err := normalize(content)
	if err != nil {
		return nil, err
	}

	if c.IsRich() && guild && !d.botCan(channel.ID, access.EmbedLinks) {
		d.suppressed(opSend, channel.GuildID, channel.ID, access.EmbedLinks)
		return nil, nil
	}

	if err := c.Validate(); err != nil {
		d.metrics.Dispatch(opSend, metrics.OutcomeTooLarge)
		return nil, err
	}

	msg, err := d.client.CreateMessage(ctx, channel.ID, c.messageSend(opts.AllowEveryone))
	if err != nil {
		d.metrics.Dispatch(opSend, metrics.OutcomeFailed)
		return nil, err
	}
	d.metrics.Dispatch(opSend, metrics.OutcomeSent)

	if msg == nil {
		return nil, nil
	}
	if msg.GuildID == "" {
		msg.GuildID = channel.GuildID
	}
	if opts.AutoDelete {
		d.scheduleDeletion(msg, opts.DeleteAfter)
	}
	return msg, nil
}

// Edit replaces the content of message. A nil message or empty content is a no-op.
// Only rich edits need a capability (Embed Links); Send Messages is not required.
func (d *Dispatcher) Edit(ctx context.Context, message *discordgo.Message, content any) (*discordgo.Message, error) {
	if message == nil {
		return nil, nil
	}
	c, err := normalize(content)
	if errors.Is(err, ErrEmptyContent) {
		return nil, nil
	}

	if c.IsRich() && message.GuildID != "" && !d.botCan(message.ChannelID, access.EmbedLinks) {
		d.suppressed(opEdit, message.GuildID, message.ChannelID, access.EmbedLinks)
		return nil, nil
	}

	if err := c.Validate(); err != nil {
		d.metrics.Dispatch(opEdit, metrics.OutcomeTooLarge)
		return nil, err
	}

	edited, err := d.client.EditMessage(ctx, c.messageEdit(message))
	if err != nil {
		d.metrics.Dispatch(opEdit, metrics.OutcomeFailed)
		return nil, err
	}
	d.metrics.Dispatch(opEdit, metrics.OutcomeSent)
	return edited, nil
}

// SendDirect opens a DM channel with user and sends content there.
// DMs being closed or the bot being blocked yields nil, nil.
func (d *Dispatcher) SendDirect(ctx context.Context, user *discordgo.User, content any, opts Options) (*discordgo.Message, error) {
	if user == nil {
		return nil, nil
	}
	ch, err := d.client.DirectChannel(ctx, user.ID)
	if err != nil || ch == nil {
		logging.Verbose(&d.log).
			Err(err).
			Str("user_id", user.ID).
			Str("username", user.Username).
			Msg("DM disabled or bot blocked")
		d.metrics.Dispatch(opDM, metrics.OutcomeSuppressed)
		return nil, nil
	}
	return d.Send(ctx, ch, content, opts)
}

// SendError sends text prefixed with the error emote.
func (d *Dispatcher) SendError(ctx context.Context, channel *discordgo.Channel, text string, opts Options) (*discordgo.Message, error) {
	return d.Send(ctx, channel, d.templates.ErrorEmote()+" "+text, opts)
}

// SendSuccess sends text prefixed with the success emote.
func (d *Dispatcher) SendSuccess(ctx context.Context, channel *discordgo.Channel, text string, opts Options) (*discordgo.Message, error) {
	return d.Send(ctx, channel, d.templates.SuccessEmote()+" "+text, opts)
}

func (d *Dispatcher) botCan(channelID string, caps ...access.Capability) bool {
	return d.resolver.HasChannelCapabilities(d.client, channelID, "", caps...)
}

func (d *Dispatcher) suppressed(op, guildID, channelID string, missing ...access.Capability) {
	logging.Verbose(&d.log).
		Str("op", op).
		Str("guild_id", guildID).
		Str("channel_id", channelID).
		Str("missing", access.DescribeCapabilities(missing)).
		Msg("missing channel permission, message not sent")
	d.metrics.Dispatch(op, metrics.OutcomeSuppressed)
}
