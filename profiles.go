package billboard

import (
	"context"
	"fmt"

	profileuc "github.com/billboard-civic/billboard/internal/usecase/profile"
)

// ProfileService manages stored profiles.
type ProfileService struct {
	svc *profileuc.Service
}

// Get returns the profile stored under username.
func (s *ProfileService) Get(ctx context.Context, username string) (Profile, error) {
	p, err := s.svc.Get(ctx, username)
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return toPublicProfile(p), nil
}

// Put validates and stores a profile, replacing any previous version.
func (s *ProfileService) Put(ctx context.Context, p Profile) (Profile, error) {
	stored, err := s.svc.Upsert(ctx, toDomainProfile(p))
	if err != nil {
		return Profile{}, fmt.Errorf("put profile: %w", err)
	}
	return toPublicProfile(stored), nil
}

// Delete removes a profile.
func (s *ProfileService) Delete(ctx context.Context, username string) error {
	if err := s.svc.Delete(ctx, username); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// List returns the usernames of all stored profiles.
func (s *ProfileService) List(ctx context.Context) ([]string, error) {
	names, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return names, nil
}

// SaveBill adds a bill to the user's saved list.
func (s *ProfileService) SaveBill(ctx context.Context, username string, billID int64) (Profile, error) {
	p, err := s.svc.SaveBill(ctx, username, billID)
	if err != nil {
		return Profile{}, fmt.Errorf("save bill: %w", err)
	}
	return toPublicProfile(p), nil
}

// UnsaveBill removes a bill from the user's saved list.
func (s *ProfileService) UnsaveBill(ctx context.Context, username string, billID int64) (Profile, error) {
	p, err := s.svc.UnsaveBill(ctx, username, billID)
	if err != nil {
		return Profile{}, fmt.Errorf("unsave bill: %w", err)
	}
	return toPublicProfile(p), nil
}
