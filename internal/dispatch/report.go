package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/axon/internal/logging"
)

// ErrorCategory classifies technical errors passed to ReportError.
type ErrorCategory string

const (
	CategoryAPI      ErrorCategory = "api"
	CategoryDatabase ErrorCategory = "db"
	CategoryInternal ErrorCategory = "internal"
)

// Label returns the display name used in annotated error messages.
func (c ErrorCategory) Label() string {
	switch c {
	case CategoryAPI:
		return "API"
	case CategoryDatabase:
		return "DB"
	case CategoryInternal:
		return "Internal"
	}
	return "Unknown"
}

// ParseErrorCategory maps a case-insensitive name to a category.
func ParseErrorCategory(s string) (ErrorCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "api":
		return CategoryAPI, true
	case "db", "database":
		return CategoryDatabase, true
	case "internal":
		return CategoryInternal, true
	}
	return "", false
}

// CategorizedError is a technical error annotated with its category.
type CategorizedError struct {
	Category ErrorCategory
	Err      error
}

func (e *CategorizedError) Error() string {
	return fmt.Sprintf("Type: %s | %v", e.Category.Label(), e.Err)
}

func (e *CategorizedError) Unwrap() error { return e.Err }

// CategoryOf returns the category of the first CategorizedError in err's chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category, true
	}
	return "", false
}

// ReportError tells the channel of msg that something went wrong, using
// text or the template's general error.
//
// With a non-nil err it returns err wrapped in a *CategorizedError so the
// caller can branch on the category. Without one, the failure is logged at
// emergency level and nil is returned. A failed notification is returned as
// well, joined with the categorized error when there is one.
func (d *Dispatcher) ReportError(ctx context.Context, msg *discordgo.Message, err error, category ErrorCategory, text string) error {
	if text == "" {
		text = d.templates.GeneralError()
	}

	var notifyErr error
	channelID, guildID := "", ""
	if msg != nil {
		channelID, guildID = msg.ChannelID, msg.GuildID
		ch := &discordgo.Channel{ID: channelID, GuildID: guildID}
		if _, sendErr := d.SendError(ctx, ch, text, Options{}); sendErr != nil {
			notifyErr = fmt.Errorf("dispatch: error notification: %w", sendErr)
		}
	}

	if err != nil {
		categorized := &CategorizedError{Category: category, Err: err}
		if notifyErr != nil {
			return errors.Join(categorized, notifyErr)
		}
		return categorized
	}

	logging.Emergency(&d.log).
		Str("category", string(category)).
		Str("guild_id", guildID).
		Str("channel_id", channelID).
		Msg("unexpected error")
	return notifyErr
}
