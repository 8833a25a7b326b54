package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"inkstudio/internal/pkg/imgutil"
	"inkstudio/internal/repository"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("image not found")
)

// SettingsStore is the key/value slice of the local record store holding
// the ordered portfolio list and the homepage image.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

type Service struct {
	settings       SettingsStore
	defaultHomeURL string
}

func NewService(settings SettingsStore, defaultHomeURL string) *Service {
	return &Service{
		settings:       settings,
		defaultHomeURL: defaultHomeURL,
	}
}

// List returns the ordered portfolio image payloads.
func (s *Service) List(ctx context.Context) ([]string, error) {
	raw, ok, err := s.settings.Get(ctx, repository.KeyPortfolio)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}

	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	return images, nil
}

func (s *Service) persist(ctx context.Context, images []string) error {
	raw, err := json.Marshal(images)
	if err != nil {
		return err
	}
	return s.settings.Put(ctx, repository.KeyPortfolio, string(raw))
}

// Add recompresses the uploaded payload and appends it to the list.
func (s *Service) Add(ctx context.Context, dataURI string) ([]string, error) {
	compressed, err := imgutil.CompressDataURI(dataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	images, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	images = append(images, compressed)

	if err := s.persist(ctx, images); err != nil {
		return nil, err
	}
	return images, nil
}

// Remove deletes the image at the given position.
func (s *Service) Remove(ctx context.Context, index int) ([]string, error) {
	images, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(images) {
		return nil, ErrNotFound
	}

	images = append(images[:index], images[index+1:]...)
	if err := s.persist(ctx, images); err != nil {
		return nil, err
	}
	return images, nil
}

// Reorder moves the image at from to position to.
func (s *Service) Reorder(ctx context.Context, from, to int) ([]string, error) {
	images, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(images) || to < 0 || to >= len(images) {
		return nil, ErrNotFound
	}
	if from == to {
		return images, nil
	}

	moved := images[from]
	images = append(images[:from], images[from+1:]...)
	images = append(images[:to], append([]string{moved}, images[to:]...)...)

	if err := s.persist(ctx, images); err != nil {
		return nil, err
	}
	return images, nil
}

// HomeImage returns the stored homepage image, or the configured default
// URL when none has been uploaded.
func (s *Service) HomeImage(ctx context.Context) (string, error) {
	raw, ok, err := s.settings.Get(ctx, repository.KeyHomeImage)
	if err != nil {
		return "", err
	}
	if !ok || raw == "" {
		return s.defaultHomeURL, nil
	}
	return raw, nil
}

// SetHomeImage recompresses and stores the homepage image.
func (s *Service) SetHomeImage(ctx context.Context, dataURI string) (string, error) {
	compressed, err := imgutil.CompressDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.settings.Put(ctx, repository.KeyHomeImage, compressed); err != nil {
		return "", err
	}
	return compressed, nil
}
