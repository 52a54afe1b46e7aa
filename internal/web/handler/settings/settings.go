// Package settings serves the key-value settings over the json api.
package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/setting"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/models"
	"github.com/Miraubolant/MiroTrak-sub001/internal/web/handler"
)

const (
	// Path is the settings collection path inside the api group.
	Path = "/settings"

	// BulkPath accepts a batch of upserts.
	BulkPath = Path + "/bulk"

	// KeyPath addresses one setting.
	KeyPath = Path + "/:key"
)

// ErrValueMissing is returned when the request carries no value or a null value.
var ErrValueMissing = errors.New("value is required")

// Store is the settings storage the handler serves.
type Store interface {
	GetAll(ctx context.Context) ([]models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, in setting.Input) (*models.Setting, error)
	BulkUpsert(ctx context.Context, in []setting.Input) ([]models.Setting, error)
	Delete(ctx context.Context, key string) error
}

// UpsertRequest is the body of a single setting write.
type UpsertRequest struct {
	Key         string          `json:"key"         validate:"required,max=191"`
	Value       json.RawMessage `json:"value"`
	Type        string          `json:"type"`
	Description *string         `json:"description" validate:"omitempty,max=512"`
}

// BulkRequest is the body of a batch write.
type BulkRequest struct {
	Settings []UpsertRequest `json:"settings" validate:"required,dive"`
}

// Service is the settings handler service.
type Service struct {
	handler.Service
	store     Store
	validator *handler.Validator
}

// New returns a settings handler backed by store.
func New(store Store) *Service {
	return &Service{
		store:     store,
		validator: handler.NewValidator(),
	}
}

// Init registers the settings routes on router.
func (s *Service) Init(router fiber.Router) error {
	if router == nil || s.store == nil {
		return handler.ErrNilDependency
	}

	router.Get(Path, s.List)
	router.Put(BulkPath, s.Bulk)
	router.Get(KeyPath, s.Get)
	router.Post(Path, s.Post)
	router.Delete(KeyPath, s.Delete)

	return nil
}

// List returns every setting.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := s.store.GetAll(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load settings", err)
	}

	return c.JSON(all)
}

// Get returns the setting named by the key parameter.
func (s *Service) Get(c *fiber.Ctx) error {
	key, err := handler.PathParam(c, "key")
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidPathParam, err)
	}

	row, err := s.store.Get(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) || errors.Is(err, setting.ErrSettingKeyEmpty) {
			return handler.JSONError(c, fiber.StatusNotFound, "Setting not found", nil)
		}

		log.Error().Err(err).Str("key", key).Msg("failed to load setting")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load setting", err)
	}

	return c.JSON(row)
}

// Post creates or replaces one setting.
func (s *Service) Post(c *fiber.Ctx) error {
	var req UpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	in, err := req.input()
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	row, err := s.store.Upsert(c.UserContext(), in)
	if err != nil {
		if !setting.IsValidation(err) {
			log.Error().Err(err).Str("key", in.Key).Msg("failed to save setting")
		}

		return handler.JSONError(c, fiber.StatusBadRequest, "Failed to save setting", err)
	}

	valueField(log.Info().Str("key", row.Key).Str("type", row.Type), row).Msg("setting saved")

	return c.JSON(row)
}

// Bulk applies a batch of upserts in order and returns every setting.
func (s *Service) Bulk(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	inputs := make([]setting.Input, len(req.Settings))

	for i := range req.Settings {
		in, err := req.Settings[i].input()
		if err != nil {
			return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
		}

		inputs[i] = in
	}

	written, err := s.store.BulkUpsert(c.UserContext(), inputs)
	if err != nil {
		log.Error().Err(err).Int("written", len(written)).Msg("bulk settings update stopped")

		return handler.JSONError(c, fiber.StatusBadRequest, "Failed to save settings", err)
	}

	all, err := s.store.GetAll(c.UserContext())
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Failed to save settings", err)
	}

	log.Info().Int("count", len(written)).Msg("bulk settings update applied")

	return c.JSON(all)
}

// Delete removes the setting named by the key parameter.
func (s *Service) Delete(c *fiber.Ctx) error {
	key, err := handler.PathParam(c, "key")
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidPathParam, err)
	}

	if err = s.store.Delete(c.UserContext(), key); err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) || errors.Is(err, setting.ErrSettingKeyEmpty) {
			return handler.JSONError(c, fiber.StatusNotFound, "Setting not found", nil)
		}

		log.Error().Err(err).Str("key", key).Msg("failed to delete setting")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to delete setting", err)
	}

	log.Info().Str("key", key).Msg("setting deleted")

	return c.JSON(handler.MessageResponse{Message: "Setting deleted successfully"})
}

// input converts the request into a store input. Json strings are unquoted,
// every other literal keeps its raw text.
func (r *UpsertRequest) input() (setting.Input, error) {
	text, err := valueText(r.Value)
	if err != nil {
		return setting.Input{}, err
	}

	return setting.Input{
		Key:         r.Key,
		Value:       text,
		Type:        r.Type,
		Description: r.Description,
	}, nil
}

func valueText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", ErrValueMissing
	}

	if raw[0] != '"' {
		return string(raw), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}

	return s, nil
}

// valueField adds the stored value to e under its own json type.
func valueField(e *zerolog.Event, row *models.Setting) *zerolog.Event {
	v, err := setting.Decode(setting.Type(row.Type), row.Value)
	if err != nil {
		return e.Str("value", row.Value)
	}

	if text, ok := v.Text(); ok {
		return e.Str("value", text)
	}

	if flag, ok := v.Bool(); ok {
		return e.Bool("value", flag)
	}

	if num, ok := v.Number(); ok {
		return e.Float64("value", num)
	}

	return e.RawJSON("value", []byte(v.Encode()))
}
