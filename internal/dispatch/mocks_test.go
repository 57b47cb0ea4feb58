package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/keshon/axon/internal/access"
	"github.com/keshon/axon/internal/config"
	"github.com/keshon/axon/internal/logging"
	"github.com/keshon/axon/internal/metrics"
)

const (
	botID     = "bot"
	guildID   = "guild"
	channelID = "chan"
)

// mockClient records every call in order; behavior is overridable per test.
type mockClient struct {
	mu    sync.Mutex
	calls []string

	perms int64

	CreateMessageFunc func(ctx context.Context, channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessageFunc   func(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error)
	DeleteMessageFunc func(ctx context.Context, channelID, messageID string) error
	DirectChannelFunc func(ctx context.Context, userID string) (*discordgo.Channel, error)

	sent    []*discordgo.MessageSend
	edits   []*discordgo.MessageEdit
	deleted chan string
}

func newMockClient(perms access.Capability) *mockClient {
	return &mockClient{perms: int64(perms), deleted: make(chan string, 8)}
}

func (m *mockClient) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockClient) count(prefix string) int {
	n := 0
	for _, c := range m.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (m *mockClient) SelfID() string { return botID }

func (m *mockClient) ChannelPermissions(channelID, userID string) (int64, error) {
	m.record("perms")
	return m.perms, nil
}

func (m *mockClient) CreateMessage(ctx context.Context, channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	m.record("create")
	m.mu.Lock()
	m.sent = append(m.sent, data)
	m.mu.Unlock()
	if m.CreateMessageFunc != nil {
		return m.CreateMessageFunc(ctx, channelID, data)
	}
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID, Content: data.Content, Embeds: data.Embeds}, nil
}

func (m *mockClient) EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	m.record("edit")
	m.mu.Lock()
	m.edits = append(m.edits, edit)
	m.mu.Unlock()
	if m.EditMessageFunc != nil {
		return m.EditMessageFunc(ctx, edit)
	}
	return &discordgo.Message{ID: edit.ID, ChannelID: edit.Channel}, nil
}

func (m *mockClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	m.record("delete")
	var err error
	if m.DeleteMessageFunc != nil {
		err = m.DeleteMessageFunc(ctx, channelID, messageID)
	}
	m.deleted <- messageID
	return err
}

func (m *mockClient) DirectChannel(ctx context.Context, userID string) (*discordgo.Channel, error) {
	m.record("dm")
	if m.DirectChannelFunc != nil {
		return m.DirectChannelFunc(ctx, userID)
	}
	return &discordgo.Channel{ID: "dm-" + userID, Type: discordgo.ChannelTypeDM}, nil
}

// lockedBuffer is written by deletion goroutines while tests read it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testEnv struct {
	client  *mockClient
	d       *Dispatcher
	logs    *lockedBuffer
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, perms access.Capability) *testEnv {
	t.Helper()
	client := newMockClient(perms)
	logs := &lockedBuffer{}
	m := metrics.New()
	resolver := access.NewResolver(nil, nil)
	d := New(client, resolver, config.DefaultTemplate(), logging.NewWithWriter(logs, "debug"), m)
	t.Cleanup(d.Close)
	return &testEnv{client: client, d: d, logs: logs, metrics: m}
}

// entries decodes the JSON log lines written so far.
func (e *testEnv) entries(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(e.logs.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func (e *testEnv) levelCount(t *testing.T, level string) int {
	n := 0
	for _, entry := range e.entries(t) {
		if entry["level"] == level {
			n++
		}
	}
	return n
}

func guildChannel() *discordgo.Channel {
	return &discordgo.Channel{ID: channelID, GuildID: guildID, Type: discordgo.ChannelTypeGuildText}
}

func dmChannel() *discordgo.Channel {
	return &discordgo.Channel{ID: "dm", Type: discordgo.ChannelTypeDM}
}
