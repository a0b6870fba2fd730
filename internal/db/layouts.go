package db

import (
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/Busline-Digital/marquee/internal/model"
)

func (s *pgStore) CreateLayout(layout model.Layout) (model.Layout, error) {
	var out model.Layout
	const q = `
	INSERT INTO layouts
	(name, description, width, height, background_color, widgets, thumbnail, company_id, created_at, updated_at)
	VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	RETURNING id, name, description, width, height, background_color, widgets, thumbnail, company_id, created_at, updated_at;`
	if err := s.db.Get(&out, q,
		layout.Name,
		layout.Description,
		layout.Width,
		layout.Height,
		layout.BackgroundColor,
		layout.Widgets,
		layout.Thumbnail,
		layout.CompanyID,
	); err != nil {
		log.Error().Err(err).Msg("failed to create layout")
		return model.Layout{}, err
	}
	return out, nil
}

func (s *pgStore) GetLayoutByID(id int) (model.Layout, error) {
	var layout model.Layout
	err := s.db.Get(&layout, `
		SELECT id, name, description, width, height, background_color, widgets, thumbnail, company_id, created_at, updated_at
		FROM layouts
		WHERE id = $1
		`, id)
	if err != nil {
		log.Error().Err(err).Int("layout_id", id).Msg("failed to get layout by id")
	}
	return layout, err
}

// ListLayouts returns one page of a company's layouts plus the total count.
// Pages are 1-based; page 0 is treated as page 1.
func (s *pgStore) ListLayouts(companyID, page int) ([]model.Layout, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	if err := s.db.Get(&total, `SELECT count(*) FROM layouts WHERE company_id = $1`, companyID); err != nil {
		log.Error().Err(err).Msg("failed to count layouts")
		return nil, 0, err
	}

	var layouts []model.Layout
	err := s.db.Select(&layouts, `
		SELECT id, name, description, width, height, background_color, widgets, thumbnail, company_id, created_at, updated_at
		FROM layouts
		WHERE company_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2 OFFSET $3
		`, companyID, LayoutPageSize, (page-1)*LayoutPageSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to list layouts")
		return nil, 0, err
	}
	return layouts, total, nil
}

func (s *pgStore) UpdateLayout(layout model.Layout) error {
	_, err := s.db.Exec(`
		UPDATE layouts
		SET name             = $2,
		description      = $3,
		width            = $4,
		height           = $5,
		background_color = $6,
		widgets          = $7,
		thumbnail        = $8,
		updated_at       = now()
		WHERE id = $1
		`,
		layout.ID,
		layout.Name,
		layout.Description,
		layout.Width,
		layout.Height,
		layout.BackgroundColor,
		layout.Widgets,
		layout.Thumbnail,
	)
	if err != nil {
		log.Error().Err(err).Int("layout_id", layout.ID).Msg("failed to update layout")
	}
	return err
}

func (s *pgStore) DeleteLayout(id int) error {
	_, err := s.db.Exec(`DELETE FROM layouts WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("layout_id", id).Msg("failed to delete layout")
	}
	return err
}
