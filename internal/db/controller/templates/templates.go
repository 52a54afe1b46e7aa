// Package templates stores the PDF template registry as one JSON setting.
//
// Every template lives in a single object keyed by template type under the
// pdf_templates setting. Writes rewrite the whole object; Upsert reads and
// writes in two steps, so two concurrent upserts of different types can lose
// one of the updates.
package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/setting"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/models"
)

const (
	// SettingKeyPDFTemplates is the key used to store the templates in the settings table.
	SettingKeyPDFTemplates = "pdf_templates"

	// SettingDescription is stored alongside the templates setting.
	SettingDescription = "Templates PDF personnalisables"
)

var (
	// ErrTemplatesNotFound is returned when the templates setting does not exist.
	ErrTemplatesNotFound = errors.New("templates not found")
	// ErrTemplatesMalformed is returned when the stored templates are not a JSON object.
	// It wraps ErrTemplatesNotFound so callers treat it as absent.
	ErrTemplatesMalformed = fmt.Errorf("%w: stored templates are malformed", ErrTemplatesNotFound)
	// ErrTemplateNotFound is returned when a template type is missing from the registry.
	ErrTemplateNotFound = errors.New("template not found")
)

// SettingStore is the part of the settings store the registry needs.
type SettingStore interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, in setting.Input) (*models.Setting, error)
}

// Template is one PDF template.
type Template struct {
	Name    string `json:"name"    validate:"required"`
	Content string `json:"content"`
	Enabled bool   `json:"enabled"`
}

// UnmarshalJSON decodes a template, defaulting Enabled to true when absent.
func (t *Template) UnmarshalJSON(data []byte) error {
	type plain Template

	p := plain{Enabled: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*t = Template(p)

	return nil
}

// Templates maps template type to template.
type Templates map[string]Template

// Registry reads and writes the templates setting.
type Registry struct {
	store SettingStore
}

// New returns a Registry on top of store.
func New(store SettingStore) *Registry {
	return &Registry{store: store}
}

// List returns every template.
func (r *Registry) List(ctx context.Context) (Templates, error) {
	s, err := r.store.Get(ctx, SettingKeyPDFTemplates)
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return nil, ErrTemplatesNotFound
		}

		return nil, err
	}

	return decode(s.Value)
}

// Get returns the template stored under typ.
func (r *Registry) Get(ctx context.Context, typ string) (Template, error) {
	all, err := r.List(ctx)
	if err != nil {
		return Template{}, err
	}

	t, ok := all[typ]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, typ)
	}

	return t, nil
}

// Upsert sets the template for typ and returns the full registry.
// A missing templates setting is created.
func (r *Registry) Upsert(ctx context.Context, typ string, t Template) (Templates, error) {
	all, err := r.List(ctx)

	switch {
	case errors.Is(err, ErrTemplatesMalformed):
		return nil, err
	case errors.Is(err, ErrTemplatesNotFound):
		all = Templates{}
	case err != nil:
		return nil, err
	}

	all[typ] = t

	return r.save(ctx, all)
}

// ReplaceAll overwrites the registry with all. Nothing previously stored is kept.
func (r *Registry) ReplaceAll(ctx context.Context, all Templates) (Templates, error) {
	if all == nil {
		all = Templates{}
	}

	return r.save(ctx, all)
}

func (r *Registry) save(ctx context.Context, all Templates) (Templates, error) {
	v, err := setting.JSONValue(all)
	if err != nil {
		return nil, err
	}

	description := SettingDescription

	_, err = r.store.Upsert(ctx, setting.Input{
		Key:         SettingKeyPDFTemplates,
		Value:       v.Encode(),
		Type:        string(setting.TypeJSON),
		Description: &description,
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}

func decode(text string) (Templates, error) {
	v, err := setting.Decode(setting.TypeJSON, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplatesMalformed, err)
	}

	var all Templates
	if err = v.Unmarshal(&all); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplatesMalformed, err)
	}

	if all == nil {
		all = Templates{}
	}

	return all, nil
}
