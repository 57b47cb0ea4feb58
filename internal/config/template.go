package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template holds the emotes and canned texts used in bot replies.
type Template struct {
	Emote   Emotes   `yaml:"emote"`
	Message Messages `yaml:"message"`
}

type Emotes struct {
	Error   string `yaml:"error"`
	Success string `yaml:"success"`
}

type Messages struct {
	Error ErrorMessages `yaml:"error"`
}

type ErrorMessages struct {
	General string `yaml:"general"`
}

// DefaultTemplate returns the built-in template.
func DefaultTemplate() *Template {
	return &Template{
		Emote: Emotes{
			Error:   "❌",
			Success: "✅",
		},
		Message: Messages{
			Error: ErrorMessages{
				General: "An unexpected error occurred. Please try again later.",
			},
		},
	}
}

// LoadTemplate reads a YAML template file. Keys missing from the file keep
// their default values; an empty path returns the defaults.
func LoadTemplate(path string) (*Template, error) {
	tpl := DefaultTemplate()
	if path == "" {
		return tpl, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading template %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, tpl); err != nil {
		return nil, fmt.Errorf("config: parsing template %s: %w", path, err)
	}
	return tpl, nil
}

// ErrorEmote returns the marker prefixed to error replies.
func (t *Template) ErrorEmote() string { return t.Emote.Error }

// SuccessEmote returns the marker prefixed to success replies.
func (t *Template) SuccessEmote() string { return t.Emote.Success }

// GeneralError returns the default user-facing error text.
func (t *Template) GeneralError() string { return t.Message.Error.General }
