// /internal/storage/storage.go
package storage

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/keshon/axon/datastore"
	"github.com/keshon/axon/internal/access"
)

type Storage struct {
	ds *datastore.DataStore
}

// Record is the per-guild document.
type Record struct {
	ModUsers []string `json:"mod_users"`
	ModRoles []string `json:"mod_roles"`
}

func New(filePath string, logger zerolog.Logger) (*Storage, error) {
	ds, err := datastore.New(filePath, logger)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// Guilds lists the guild IDs that have a stored record.
func (s *Storage) Guilds() []string {
	return s.ds.Keys()
}

// Helper function to get or create a Record for a guild
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	if guildID == "" {
		return nil, fmt.Errorf("storage: empty guild id")
	}

	var record Record
	exists, err := s.ds.Get(guildID, &record)
	if err != nil {
		return nil, fmt.Errorf("storage: reading guild %s: %w", guildID, err)
	}
	if !exists {
		return &Record{ModUsers: []string{}, ModRoles: []string{}}, nil
	}
	if record.ModUsers == nil {
		record.ModUsers = []string{}
	}
	if record.ModRoles == nil {
		record.ModRoles = []string{}
	}
	return &record, nil
}

// ModConfig returns the moderator configuration for a guild. Unknown guilds
// yield an empty configuration.
func (s *Storage) ModConfig(guildID string) (access.ModConfig, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return access.ModConfig{}, err
	}
	return access.ModConfig{
		Users: slices.Clone(record.ModUsers),
		Roles: slices.Clone(record.ModRoles),
	}, nil
}

func (s *Storage) AddModUser(guildID, userID string) error {
	return s.update(guildID, func(r *Record) bool {
		return addUnique(&r.ModUsers, userID)
	})
}

func (s *Storage) RemoveModUser(guildID, userID string) error {
	return s.update(guildID, func(r *Record) bool {
		return remove(&r.ModUsers, userID)
	})
}

func (s *Storage) AddModRole(guildID, roleID string) error {
	return s.update(guildID, func(r *Record) bool {
		return addUnique(&r.ModRoles, roleID)
	})
}

func (s *Storage) RemoveModRole(guildID, roleID string) error {
	return s.update(guildID, func(r *Record) bool {
		return remove(&r.ModRoles, roleID)
	})
}

func (s *Storage) update(guildID string, mutate func(*Record) bool) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	if !mutate(record) {
		return nil
	}
	if len(record.ModUsers) == 0 && len(record.ModRoles) == 0 {
		s.ds.Delete(guildID)
		return nil
	}
	return s.ds.Put(guildID, record)
}

func addUnique(list *[]string, id string) bool {
	if id == "" || slices.Contains(*list, id) {
		return false
	}
	*list = append(*list, id)
	return true
}

func remove(list *[]string, id string) bool {
	i := slices.Index(*list, id)
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	return true
}
