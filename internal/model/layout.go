package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Layout is a full signage canvas: fixed pixel dimensions plus the widgets
// placed on it. The widgets slice is stored as a single JSONB column; render
// order comes from each widget's z-index, not slice order.
type Layout struct {
	ID              int        `db:"id"               json:"id"`
	Name            string     `db:"name"             json:"name"`
	Description     *string    `db:"description"      json:"description,omitempty"`
	Width           int        `db:"width"            json:"width"`
	Height          int        `db:"height"           json:"height"`
	BackgroundColor string     `db:"background_color" json:"backgroundColor"`
	Widgets         WidgetList `db:"widgets"          json:"widgets"`
	Thumbnail       *string    `db:"thumbnail"        json:"thumbnail,omitempty"`
	CompanyID       int        `db:"company_id"       json:"company_id"`
	CreatedAt       time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"       json:"updated_at"`
}

// WidgetList maps the widgets JSONB column.
type WidgetList []Widget

func (w WidgetList) Value() (driver.Value, error) {
	if w == nil {
		w = WidgetList{}
	}
	return json.Marshal(w)
}

func (w *WidgetList) Scan(src any) error {
	if src == nil {
		*w = WidgetList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("widgets column: unsupported type %T", src)
	}
	if err := json.Unmarshal(raw, w); err != nil {
		// a corrupt row must not poison the read path; degrade to no widgets
		log.Error().Err(err).Msg("failed to decode widgets column, falling back to empty list")
		*w = WidgetList{}
	}
	return nil
}

// Clone returns a deep copy. Editing always happens on a copy so the saved
// list entry stays untouched until an explicit save.
func (l Layout) Clone() Layout {
	out := l
	out.Widgets = make(WidgetList, len(l.Widgets))
	for i, w := range l.Widgets {
		out.Widgets[i] = w.Clone()
	}
	return out
}
