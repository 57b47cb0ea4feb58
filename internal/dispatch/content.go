package dispatch

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// Discord content limits, in characters unless noted.
const (
	MaxTextLength        = 2000
	MaxEmbedLength       = 6000
	MaxDescriptionLength = 2048
	MaxTitleLength       = 256
	MaxAuthorNameLength  = 256
	MaxFooterLength      = 2048
	MaxFields            = 25 // entries
	MaxFieldNameLength   = 256
	MaxFieldValueLength  = 1024
)

var (
	ErrContentTooLarge = errors.New("content too large")
	ErrEmptyContent    = errors.New("dispatch: empty content")
)

// ContentTooLargeError reports the first field that exceeds its limit.
type ContentTooLargeError struct {
	Field string
	Limit int
	Size  int
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("dispatch: %s: %s > %d (got %d)", ErrContentTooLarge, e.Field, e.Limit, e.Size)
}

func (e *ContentTooLargeError) Is(target error) bool {
	return target == ErrContentTooLarge
}

// Content is an outbound message: plain text, or an embed with optional text.
type Content struct {
	Text  string
	Embed *discordgo.MessageEmbed
}

// Text builds plain-text content.
func Text(s string) Content {
	return Content{Text: s}
}

// Rich builds embed content with an optional accompanying text.
func Rich(embed *discordgo.MessageEmbed, text string) Content {
	return Content{Text: text, Embed: embed}
}

// IsRich reports whether the content carries an embed.
func (c Content) IsRich() bool {
	return c.Embed != nil
}

// normalize converts any accepted payload into Content.
func normalize(content any) (Content, error) {
	var c Content
	switch v := content.(type) {
	case nil:
	case Content:
		c = v
	case *Content:
		if v != nil {
			c = *v
		}
	case *discordgo.MessageEmbed:
		c.Embed = v
	case string:
		c.Text = v
	default:
		c.Text = fmt.Sprint(v)
	}

	if c.Text == "" && c.Embed == nil {
		return c, ErrEmptyContent
	}
	return c, nil
}

// Validate checks every limit in order and returns the first violation.
func (c Content) Validate() error {
	if n := length(c.Text); n > MaxTextLength {
		return &ContentTooLargeError{Field: "content", Limit: MaxTextLength, Size: n}
	}
	if c.Embed == nil {
		return nil
	}

	e := c.Embed
	if n := EmbedLength(e); n > MaxEmbedLength {
		return &ContentTooLargeError{Field: "embed", Limit: MaxEmbedLength, Size: n}
	}
	if n := length(e.Description); n > MaxDescriptionLength {
		return &ContentTooLargeError{Field: "description", Limit: MaxDescriptionLength, Size: n}
	}
	if n := length(e.Title); n > MaxTitleLength {
		return &ContentTooLargeError{Field: "title", Limit: MaxTitleLength, Size: n}
	}
	if e.Author != nil {
		if n := length(e.Author.Name); n > MaxAuthorNameLength {
			return &ContentTooLargeError{Field: "author", Limit: MaxAuthorNameLength, Size: n}
		}
	}
	if e.Footer != nil {
		if n := length(e.Footer.Text); n > MaxFooterLength {
			return &ContentTooLargeError{Field: "footer", Limit: MaxFooterLength, Size: n}
		}
	}
	if len(e.Fields) > MaxFields {
		return &ContentTooLargeError{Field: "fields", Limit: MaxFields, Size: len(e.Fields)}
	}
	for i, f := range e.Fields {
		if f == nil {
			continue
		}
		if n := length(f.Name); n > MaxFieldNameLength {
			return &ContentTooLargeError{Field: fmt.Sprintf("fields[%d].name", i), Limit: MaxFieldNameLength, Size: n}
		}
		if n := length(f.Value); n > MaxFieldValueLength {
			return &ContentTooLargeError{Field: fmt.Sprintf("fields[%d].value", i), Limit: MaxFieldValueLength, Size: n}
		}
	}
	return nil
}

// EmbedLength is the total character count Discord applies the 6000 limit to.
func EmbedLength(e *discordgo.MessageEmbed) int {
	if e == nil {
		return 0
	}
	n := length(e.Title) + length(e.Description)
	if e.Author != nil {
		n += length(e.Author.Name)
	}
	if e.Footer != nil {
		n += length(e.Footer.Text)
	}
	for _, f := range e.Fields {
		if f != nil {
			n += length(f.Name) + length(f.Value)
		}
	}
	return n
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// messageSend builds the create payload. @everyone and @here stay inert
// unless allowEveryone is set.
func (c Content) messageSend(allowEveryone bool) *discordgo.MessageSend {
	send := &discordgo.MessageSend{Content: c.Text}
	if c.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{c.Embed}
	}
	if !allowEveryone {
		send.AllowedMentions = &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{
				discordgo.AllowedMentionTypeUsers,
				discordgo.AllowedMentionTypeRoles,
			},
		}
	}
	return send
}

// messageEdit builds the edit payload for an existing message. Content is
// left unset for embed-only edits so the existing text survives.
func (c Content) messageEdit(m *discordgo.Message) *discordgo.MessageEdit {
	edit := discordgo.NewMessageEdit(m.ChannelID, m.ID)
	if c.Text != "" {
		edit.SetContent(c.Text)
	}
	if c.Embed != nil {
		edit.SetEmbed(c.Embed)
	}
	return edit
}
