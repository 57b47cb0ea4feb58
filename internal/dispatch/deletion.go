package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/axon/internal/logging"
	"github.com/keshon/axon/internal/metrics"
	"github.com/keshon/axon/pkg/jobmgr"
	"github.com/keshon/axon/pkg/retrylimit"
)

const deletionPrefix = "delete:"

// scheduleDeletion removes msg after delay on a detached job. Failures are
// logged and counted, never returned to the sender.
func (d *Dispatcher) scheduleDeletion(msg *discordgo.Message, delay time.Duration) {
	channelID, messageID := msg.ChannelID, msg.ID

	err := d.deletions.StartAfter(deletionPrefix+messageID, delay, func(ctx context.Context) error {
		err := retrylimit.WithRetryMax(ctx, func() error {
			return d.client.DeleteMessage(ctx, channelID, messageID)
		}, d.limiter, 3)

		switch {
		case err == nil:
			d.metrics.Deletion(metrics.OutcomeDeleted)
		case errors.Is(err, context.Canceled):
			// counted by CancelDeletion
		default:
			d.log.Warn().
				Err(err).
				Str("channel_id", channelID).
				Str("message_id", messageID).
				Msg("scheduled delete failed")
			d.metrics.Deletion(metrics.OutcomeFailed)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, jobmgr.ErrJobExists) {
			d.metrics.Deletion(metrics.OutcomeSkipped)
			return
		}
		d.log.Warn().Err(err).Str("message_id", messageID).Msg("could not schedule delete")
	}
}

// CancelDeletion stops a pending scheduled deletion. It reports whether one was pending.
func (d *Dispatcher) CancelDeletion(messageID string) bool {
	if err := d.deletions.Stop(deletionPrefix + messageID); err != nil {
		return false
	}
	d.metrics.Deletion(metrics.OutcomeCancelled)
	return true
}

// PendingDeletions returns the ids of messages with a scheduled deletion.
func (d *Dispatcher) PendingDeletions() []string {
	jobs := d.deletions.List()
	ids := make([]string, 0, len(jobs))
	for _, name := range jobs {
		ids = append(ids, strings.TrimPrefix(name, deletionPrefix))
	}
	return ids
}

// Close cancels every pending deletion and waits for running ones to stop.
func (d *Dispatcher) Close() {
	logging.Verbose(&d.log).Str("jobs", d.deletions.Status()).Msg("stopping deletions")
	d.deletions.StopAll()
}
