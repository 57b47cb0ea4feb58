// Package datastore is a small JSON-file backed key/value store with
// periodic auto-save and atomic writes.
package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("datastore is closed")

// Config holds configuration options for the DataStore
type Config struct {
	FilePath         string
	AutoSaveInterval time.Duration // 0 disables auto-save
	Logger           zerolog.Logger
}

// DefaultConfig returns a default configuration
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		Logger:           zerolog.Nop(),
	}
}

type DataStore struct {
	data         map[string]json.RawMessage // in-memory data storage
	file         string                     // file path for persistent storage
	mu           sync.RWMutex               // guards data and lastChecksum
	cancel       context.CancelFunc         // stops auto-save
	wg           sync.WaitGroup             // auto-save goroutine
	config       *Config                    // configuration
	lastChecksum string                     // checksum of last saved data
	closed       bool                       // guarded by mu
}

// New creates a new DataStore with default configuration
func New(filePath string, logger zerolog.Logger) (*DataStore, error) {
	cfg := DefaultConfig(filePath)
	cfg.Logger = logger
	return NewWithConfig(cfg)
}

// NewWithConfig creates a new DataStore with custom configuration
func NewWithConfig(config *Config) (*DataStore, error) {
	if config == nil {
		return nil, errors.New("datastore: config cannot be nil")
	}
	if config.FilePath == "" {
		return nil, errors.New("datastore: file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("datastore: creating directory: %w", err)
	}

	store := &DataStore{
		data:   make(map[string]json.RawMessage),
		file:   config.FilePath,
		config: config,
	}

	switch _, err := os.Stat(config.FilePath); {
	case errors.Is(err, os.ErrNotExist):
		if err := store.writeFileAtomic([]byte("{}")); err != nil {
			return nil, fmt.Errorf("datastore: creating empty file: %w", err)
		}
	case err == nil:
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("datastore: loading %s: %w", config.FilePath, err)
		}
	default:
		return nil, fmt.Errorf("datastore: checking %s: %w", config.FilePath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	store.cancel = cancel
	if config.AutoSaveInterval > 0 {
		store.wg.Add(1)
		go store.autoSave(ctx)
	}

	return store, nil
}

// Put stores value under key as JSON.
func (ds *DataStore) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("datastore: encoding %q: %w", key, err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.closed {
		return ErrClosed
	}
	ds.data[key] = raw
	return nil
}

// Get decodes the value under key into out. It reports whether the key exists.
func (ds *DataStore) Get(key string, out any) (bool, error) {
	ds.mu.RLock()
	raw, exists := ds.data[key]
	closed := ds.closed
	ds.mu.RUnlock()

	if closed {
		return false, ErrClosed
	}
	if !exists {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("datastore: decoding %q: %w", key, err)
	}
	return true, nil
}

// Delete removes a key-value pair
func (ds *DataStore) Delete(key string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.data, key)
}

// Keys returns all keys in sorted order.
func (ds *DataStore) Keys() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	keys := make([]string, 0, len(ds.data))
	for k := range ds.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SaveToFile forces an immediate save to disk
func (ds *DataStore) SaveToFile() error {
	ds.mu.RLock()
	closed := ds.closed
	ds.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	return ds.saveToFile()
}

// Close stops auto-save and writes the final state.
func (ds *DataStore) Close() error {
	ds.mu.Lock()
	if ds.closed {
		ds.mu.Unlock()
		return nil
	}
	ds.closed = true
	ds.mu.Unlock()

	ds.cancel()
	ds.wg.Wait()

	return ds.saveToFile()
}

// saveToFile writes the data atomically, skipping unchanged content.
func (ds *DataStore) saveToFile() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	data, err := json.MarshalIndent(ds.data, "", "  ")
	if err != nil {
		return fmt.Errorf("datastore: marshal: %w", err)
	}

	checksum := calculateChecksum(data)
	if checksum == ds.lastChecksum {
		return nil
	}

	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}
	ds.lastChecksum = checksum
	return nil
}

func (ds *DataStore) loadFromFile() error {
	data, err := os.ReadFile(ds.file)
	if err != nil {
		return err
	}

	temp := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}

	ds.mu.Lock()
	ds.data = temp
	ds.lastChecksum = calculateChecksum(data)
	ds.mu.Unlock()
	return nil
}

// writeFileAtomic performs atomic file write using temporary file and rename
func (ds *DataStore) writeFileAtomic(data []byte) error {
	tmpFile := ds.file + ".tmp"

	f, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("datastore: opening temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("datastore: writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("datastore: syncing temp file: %w", err)
	}
	f.Close()

	if err := os.Rename(tmpFile, ds.file); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("datastore: renaming temp file: %w", err)
	}
	return nil
}

// autoSave runs the periodic save routine
func (ds *DataStore) autoSave(ctx context.Context) {
	defer ds.wg.Done()

	ticker := time.NewTicker(ds.config.AutoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ds.saveToFile(); err != nil {
				ds.config.Logger.Error().Err(err).Msg("auto-save failed")
			}
		}
	}
}

// calculateChecksum computes SHA-256 checksum of data
func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
