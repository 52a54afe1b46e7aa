package daemon

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/templates"
)

// defaultTemplates are written when no templates setting exists yet.
func defaultTemplates() templates.Templates {
	return templates.Templates{
		"invoice": {
			Name:    "Facture",
			Content: "<h1>Facture {{number}}</h1>\n<p>{{client}}</p>\n<p>Total: {{total}}</p>",
			Enabled: true,
		},
		"quote": {
			Name:    "Devis",
			Content: "<h1>Devis {{number}}</h1>\n<p>{{client}}</p>\n<p>Total: {{total}}</p>",
			Enabled: true,
		},
	}
}

// seed stores the default templates when the templates setting is absent.
// A malformed setting is left for an operator to fix.
func seed(r *templates.Registry) error {
	ctx := context.Background()

	_, err := r.List(ctx)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, templates.ErrTemplatesMalformed):
		log.Warn().Err(err).Msg("stored templates are malformed, skipping seed")

		return nil
	case !errors.Is(err, templates.ErrTemplatesNotFound):
		return err
	}

	all, err := r.ReplaceAll(ctx, defaultTemplates())
	if err != nil {
		return err
	}

	log.Info().Int("count", len(all)).Msg("seeded default templates")

	return nil
}
