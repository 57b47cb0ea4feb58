// Package webhook posts operational notifications to configured Discord
// webhooks.
package webhook

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/axon/internal/config"
	"github.com/keshon/axon/internal/metrics"
	"github.com/keshon/axon/pkg/retrylimit"
)

// Notification kinds.
const (
	KindStatus = "status"
	KindLoader = "loader"
	KindError  = "error"
	KindMisc   = "misc"
)

const executeTimeout = 30 * time.Second

// Executor executes a webhook. *discordgo.Session satisfies it.
type Executor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier sends embeds to the webhook configured for a kind. Delivery runs
// in the background and failures are only logged.
type Notifier struct {
	exec     Executor
	hooks    map[string]config.Webhook
	identity func() *discordgo.User
	log      zerolog.Logger
	metrics  *metrics.Metrics
	limiter  *retrylimit.AdaptiveLimiter
	wg       sync.WaitGroup
}

// New creates a Notifier. identity returns the bot user used for the
// default username and avatar; it may be nil or return nil.
func New(exec Executor, hooks map[string]config.Webhook, identity func() *discordgo.User, logger zerolog.Logger, m *metrics.Metrics) *Notifier {
	return &Notifier{
		exec:     exec,
		hooks:    hooks,
		identity: identity,
		log:      logger.With().Str("component", "webhook").Logger(),
		metrics:  m,
		limiter:  retrylimit.NewAdaptiveLimiter(2, 0.5, 5, 0.5, 0.5),
	}
}

// Trigger posts embed to the webhook of the given kind. An empty username
// defaults to "<Kind> - <bot name>". It reports whether a delivery was
// started; unconfigured kinds are skipped.
func (n *Notifier) Trigger(kind string, embed *discordgo.MessageEmbed, username string) bool {
	hook, ok := n.hooks[kind]
	if !ok || !hook.Configured() {
		n.metrics.Webhook(kind, metrics.OutcomeSkipped)
		return false
	}

	params := &discordgo.WebhookParams{
		Username: username,
		Embeds:   []*discordgo.MessageEmbed{embed},
	}
	var self *discordgo.User
	if n.identity != nil {
		self = n.identity()
	}
	if params.Username == "" {
		params.Username = defaultUsername(kind, self)
	}
	if self != nil {
		params.AvatarURL = self.AvatarURL("")
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), executeTimeout)
		defer cancel()

		err := retrylimit.WithRetryMax(ctx, func() error {
			_, err := n.exec.WebhookExecute(hook.ID, hook.Token, false, params, discordgo.WithContext(ctx))
			return err
		}, n.limiter, 3)
		if err != nil {
			n.metrics.Webhook(kind, metrics.OutcomeFailed)
			n.log.Error().Err(err).Str("kind", kind).Msg("webhook issue")
			return
		}
		n.metrics.Webhook(kind, metrics.OutcomeSent)
	}()
	return true
}

// Wait blocks until in-flight deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func defaultUsername(kind string, self *discordgo.User) string {
	name := ""
	if self != nil {
		name = self.Username
	}
	if kind == "" {
		return name
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + " - " + name
}
