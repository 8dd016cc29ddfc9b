// Package profile persists user profiles as JSON values in the KV store.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/billboard-civic/billboard/internal/db"
	"github.com/billboard-civic/billboard/internal/domain"
)

const keyPrefix = domain.KeyPrefix + "profile:"

// store is the consumer interface for profile persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/profile.Repository.
type Repo struct {
	store store
}

// New creates a profile repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the profile stored under username.
func (r *Repo) Get(ctx context.Context, username string) (domain.Profile, error) {
	data, err := r.store.Get(ctx, key(username))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("get profile %s: %w", username, err)
	}

	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("unmarshal profile %s: %w", username, err)
	}
	return p, nil
}

// Put stores a profile, overwriting any previous value.
func (r *Repo) Put(ctx context.Context, p domain.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.Username, err)
	}
	if err := r.store.Set(ctx, key(p.Username), data); err != nil {
		return fmt.Errorf("put profile %s: %w", p.Username, err)
	}
	return nil
}

// Delete removes a profile. Deleting an absent profile is not an error.
func (r *Repo) Delete(ctx context.Context, username string) error {
	if err := r.store.Del(ctx, key(username)); err != nil {
		return fmt.Errorf("delete profile %s: %w", username, err)
	}
	return nil
}

// Exists reports whether a profile is stored under username.
func (r *Repo) Exists(ctx context.Context, username string) (bool, error) {
	ok, err := r.store.Exists(ctx, key(username))
	if err != nil {
		return false, fmt.Errorf("check profile %s: %w", username, err)
	}
	return ok, nil
}

// List returns the usernames of all stored profiles.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, keyPrefix))
	}
	return names, nil
}

func key(username string) string {
	return keyPrefix + username
}
