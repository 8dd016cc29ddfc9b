// Package profile manages user profiles: the interests and demographics
// that drive recommendations, plus the user's saved-bill list.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/billboard-civic/billboard/internal/domain"
	"github.com/billboard-civic/billboard/internal/domain/demographics"
)

// Service handles profile CRUD and the saved-bills list.
type Service struct {
	repo Repository
}

// New creates a profile service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the profile stored under username.
func (s *Service) Get(ctx context.Context, username string) (domain.Profile, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return domain.Profile{}, err
	}
	return s.repo.Get(ctx, username)
}

// Upsert validates and stores a profile, replacing any previous version.
// Interests are trimmed and deduplicated; demographic keys and values are
// normalized so term lookup downstream works on canonical forms.
func (s *Service) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	username, err := normalizeUsername(p.Username)
	if err != nil {
		return domain.Profile{}, err
	}
	p.Username = username
	p.Interests = cleanInterests(p.Interests)
	p.Demographics = cleanDemographics(p.Demographics)

	if err := s.repo.Put(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}

// Delete removes a profile. Returns ErrProfileNotFound when absent so the
// caller can distinguish a no-op delete.
func (s *Service) Delete(ctx context.Context, username string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return domain.ErrProfileNotFound
	}

	if err := s.repo.Delete(ctx, username); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// List returns the usernames of all stored profiles.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

// SaveBill adds billID to the user's saved list. Saving twice is a no-op.
func (s *Service) SaveBill(ctx context.Context, username string, billID int64) (domain.Profile, error) {
	if billID <= 0 {
		return domain.Profile{}, fmt.Errorf("%w: bill id must be positive", domain.ErrInvalidProfile)
	}

	p, err := s.Get(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}
	if p.HasSaved(billID) {
		return p, nil
	}

	p.SavedBillIDs = append(p.SavedBillIDs, billID)
	if err := s.repo.Put(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("save bill: %w", err)
	}
	return p, nil
}

// UnsaveBill removes billID from the user's saved list. Removing an id that
// was never saved is a no-op.
func (s *Service) UnsaveBill(ctx context.Context, username string, billID int64) (domain.Profile, error) {
	p, err := s.Get(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}
	if !p.HasSaved(billID) {
		return p, nil
	}

	kept := p.SavedBillIDs[:0]
	for _, id := range p.SavedBillIDs {
		if id != billID {
			kept = append(kept, id)
		}
	}
	p.SavedBillIDs = kept

	if err := s.repo.Put(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("unsave bill: %w", err)
	}
	return p, nil
}

func normalizeUsername(username string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return "", fmt.Errorf("%w: username is required", domain.ErrInvalidProfile)
	}
	for _, r := range username {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlpha && r != '_' && r != '-' && r != '.' {
			return "", fmt.Errorf("%w: username %q contains invalid characters", domain.ErrInvalidProfile, username)
		}
	}
	return username, nil
}

func cleanInterests(interests []string) []string {
	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, len(interests))
	for _, tag := range interests {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func cleanDemographics(demo map[string]string) map[string]string {
	if len(demo) == 0 {
		return nil
	}
	out := make(map[string]string, len(demo))
	for k, v := range demo {
		k = demographics.Normalize(k)
		v = demographics.Normalize(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
