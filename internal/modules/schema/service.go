package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"inkstudio/internal/domain"
	"inkstudio/internal/repository"
)

// SettingsStore is the key/value slice of the local record store the
// schema lives in.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

type SaveFieldRequest struct {
	Label       string           `json:"label" binding:"required"`
	Type        domain.FieldType `json:"type" binding:"required"`
	Placeholder string           `json:"placeholder"`
	Options     []string         `json:"options"`

	// EditIndex, when set, replaces the field at that position instead of
	// appending a new one.
	EditIndex *int `json:"editIndex"`
}

type Service struct {
	settings SettingsStore
}

func NewService(settings SettingsStore) *Service {
	return &Service{settings: settings}
}

// Fields returns the active ordered field set, falling back to the
// built-in defaults when nothing has been saved yet.
func (s *Service) Fields(ctx context.Context) ([]domain.FormField, error) {
	raw, ok, err := s.settings.Get(ctx, repository.KeyFormFields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return domain.DefaultFormFields(), nil
	}

	var fields []domain.FormField
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decode form fields: %w", err)
	}
	return fields, nil
}

func (s *Service) persist(ctx context.Context, fields []domain.FormField) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return s.settings.Put(ctx, repository.KeyFormFields, string(raw))
}

// SaveField appends a new field or replaces the one at EditIndex. The id
// is derived from the label; a derived id that collides with a different
// existing field is rejected rather than silently overwriting it.
func (s *Service) SaveField(ctx context.Context, req SaveFieldRequest) ([]domain.FormField, error) {
	id := domain.DeriveFieldID(req.Label)
	if id == "" || !domain.ValidFieldType(req.Type) {
		return nil, ErrValidation
	}

	field := domain.FormField{
		ID:          id,
		Label:       req.Label,
		Type:        req.Type,
		Placeholder: req.Placeholder,
	}
	if field.Placeholder == "" {
		field.Placeholder = "..."
	}
	if domain.RequiresOptions(req.Type) {
		for _, o := range req.Options {
			if o != "" {
				field.Options = append(field.Options, o)
			}
		}
		if len(field.Options) == 0 {
			return nil, ErrValidation
		}
	}

	fields, err := s.Fields(ctx)
	if err != nil {
		return nil, err
	}

	editIndex := -1
	if req.EditIndex != nil {
		editIndex = *req.EditIndex
		if editIndex < 0 || editIndex >= len(fields) {
			return nil, ErrNotFound
		}
	}
	for i, f := range fields {
		if f.ID == id && i != editIndex {
			return nil, ErrDuplicateField
		}
	}

	if editIndex >= 0 {
		fields[editIndex] = field
	} else {
		fields = append(fields, field)
	}

	if err := s.persist(ctx, fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Remove deletes the field at the given position.
func (s *Service) Remove(ctx context.Context, index int) ([]domain.FormField, error) {
	fields, err := s.Fields(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(fields) {
		return nil, ErrNotFound
	}

	fields = append(fields[:index], fields[index+1:]...)
	if err := s.persist(ctx, fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Reorder moves the field at from to position to, drag-and-drop style.
func (s *Service) Reorder(ctx context.Context, from, to int) ([]domain.FormField, error) {
	fields, err := s.Fields(ctx)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(fields) || to < 0 || to >= len(fields) {
		return nil, ErrNotFound
	}
	if from == to {
		return fields, nil
	}

	moved := fields[from]
	fields = append(fields[:from], fields[from+1:]...)
	fields = append(fields[:to], append([]domain.FormField{moved}, fields[to:]...)...)

	if err := s.persist(ctx, fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Migrate runs the load-time default-field upgrade path on a previously
// saved schema: the retired color_pref field goes away and the default
// description field is added when missing. A never-saved schema needs no
// migration (the defaults already carry description).
func (s *Service) Migrate(ctx context.Context) error {
	raw, ok, err := s.settings.Get(ctx, repository.KeyFormFields)
	if err != nil || !ok {
		return err
	}

	var fields []domain.FormField
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return fmt.Errorf("decode form fields: %w", err)
	}

	modified := false

	kept := fields[:0]
	for _, f := range fields {
		if f.ID == "color_pref" {
			modified = true
			continue
		}
		kept = append(kept, f)
	}
	fields = kept

	hasDescription := false
	for _, f := range fields {
		if f.ID == "description" {
			hasDescription = true
			break
		}
	}
	if !hasDescription {
		for _, f := range domain.DefaultFormFields() {
			if f.ID == "description" {
				fields = append(fields, f)
				modified = true
				break
			}
		}
	}

	if !modified {
		return nil
	}

	log.Println("schema: migrated saved form fields")
	return s.persist(ctx, fields)
}
