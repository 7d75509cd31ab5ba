package settings

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service interface {
	GetPreferences(ctx context.Context, username string) (*Preferences, error)
	UpdatePreferences(ctx context.Context, username string, dto *UpdatePreferencesDTO) (*Preferences, error)
	ResetPreferences(ctx context.Context, username string) error
	// SavedLanguage returns the language the user chose, or "" when they
	// never saved one.
	SavedLanguage(ctx context.Context, username string) (string, error)
}

type service struct {
	repo            Repository
	defaultLanguage string
	now             func() time.Time
}

func NewService(repo Repository, defaultLanguage string) Service {
	return &service{
		repo:            repo,
		defaultLanguage: defaultLanguage,
		now:             time.Now,
	}
}

func (s *service) GetPreferences(ctx context.Context, username string) (*Preferences, error) {
	p, err := s.repo.Get(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return Defaults(username, s.defaultLanguage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return p, nil
}

func (s *service) UpdatePreferences(ctx context.Context, username string, dto *UpdatePreferencesDTO) (*Preferences, error) {
	p, err := s.GetPreferences(ctx, username)
	if err != nil {
		return nil, err
	}

	p.Apply(dto)
	p.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return p, nil
}

func (s *service) ResetPreferences(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	return nil
}

func (s *service) SavedLanguage(ctx context.Context, username string) (string, error) {
	p, err := s.repo.Get(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.Language, nil
}
