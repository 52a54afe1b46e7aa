// Package templates serves the PDF template registry over the json api.
package templates

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	registry "github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/templates"
	"github.com/Miraubolant/MiroTrak-sub001/internal/web/handler"
)

const (
	// Path is the template collection path inside the api group.
	Path = "/templates"

	// BulkPath replaces the whole registry.
	BulkPath = Path + "/bulk"

	// TypePath addresses one template by type.
	TypePath = Path + "/:type"
)

// Registry is the template storage the handler serves.
type Registry interface {
	List(ctx context.Context) (registry.Templates, error)
	Get(ctx context.Context, typ string) (registry.Template, error)
	Upsert(ctx context.Context, typ string, t registry.Template) (registry.Templates, error)
	ReplaceAll(ctx context.Context, all registry.Templates) (registry.Templates, error)
}

// UpsertRequest is the body of a single template write.
type UpsertRequest struct {
	Type    string `json:"type"    validate:"required"`
	Name    string `json:"name"    validate:"required"`
	Content string `json:"content" validate:"required"`
	Enabled *bool  `json:"enabled"`
}

// BulkRequest is the body of a full registry replacement.
type BulkRequest struct {
	Templates registry.Templates `json:"templates" validate:"required,dive"`
}

// WriteResponse is returned by both write endpoints.
type WriteResponse struct {
	Message   string             `json:"message"`
	Templates registry.Templates `json:"templates"`
}

// Service is the templates handler service.
type Service struct {
	handler.Service
	registry  Registry
	validator *handler.Validator
}

// New returns a templates handler backed by r.
func New(r Registry) *Service {
	return &Service{
		registry:  r,
		validator: handler.NewValidator(),
	}
}

// Init registers the template routes on router.
func (s *Service) Init(router fiber.Router) error {
	if router == nil || s.registry == nil {
		return handler.ErrNilDependency
	}

	router.Get(Path, s.List)
	router.Put(BulkPath, s.Bulk)
	router.Get(TypePath, s.Get)
	router.Post(Path, s.Post)

	return nil
}

// List returns the whole registry.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := s.registry.List(c.UserContext())
	if err != nil {
		if errors.Is(err, registry.ErrTemplatesNotFound) {
			return handler.JSONError(c, fiber.StatusNotFound, "Templates not found", nil)
		}

		log.Error().Err(err).Msg("failed to load templates")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load templates", err)
	}

	return c.JSON(all)
}

// Get returns the template named by the type parameter.
func (s *Service) Get(c *fiber.Ctx) error {
	typ, err := handler.PathParam(c, "type")
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidPathParam, err)
	}

	t, err := s.registry.Get(c.UserContext(), typ)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrTemplateNotFound):
			return handler.JSONError(c, fiber.StatusNotFound, "Template not found", nil)
		case errors.Is(err, registry.ErrTemplatesNotFound):
			return handler.JSONError(c, fiber.StatusNotFound, "Templates not found", nil)
		}

		log.Error().Err(err).Str("type", typ).Msg("failed to load template")

		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load template", err)
	}

	return c.JSON(t)
}

// Post creates or replaces one template and returns the updated registry.
func (s *Service) Post(c *fiber.Ctx) error {
	var req UpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	t := registry.Template{Name: req.Name, Content: req.Content, Enabled: true}
	if req.Enabled != nil {
		t.Enabled = *req.Enabled
	}

	all, err := s.registry.Upsert(c.UserContext(), req.Type, t)
	if err != nil {
		log.Error().Err(err).Str("type", req.Type).Msg("failed to save template")

		return handler.JSONError(c, fiber.StatusBadRequest, "Failed to save template", err)
	}

	log.Info().Str("type", req.Type).Msg("template saved")

	return c.JSON(WriteResponse{Message: "Template saved successfully", Templates: all})
}

// Bulk replaces the whole registry.
func (s *Service) Bulk(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, handler.MsgInvalidBody, err)
	}

	all, err := s.registry.ReplaceAll(c.UserContext(), req.Templates)
	if err != nil {
		log.Error().Err(err).Msg("failed to replace templates")

		return handler.JSONError(c, fiber.StatusBadRequest, "Failed to save templates", err)
	}

	log.Info().Int("count", len(all)).Msg("templates replaced")

	return c.JSON(WriteResponse{Message: "Templates saved successfully", Templates: all})
}
