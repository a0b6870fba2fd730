package editor

import "github.com/Busline-Digital/marquee/internal/model"

// TemplateType names a predefined canvas split.
type TemplateType string

const (
	TemplateBlank           TemplateType = "blank"
	TemplateSplitHorizontal TemplateType = "split-horizontal"
	TemplateSplitVertical   TemplateType = "split-vertical"
	TemplateSidebarLeft     TemplateType = "sidebar-left"
	TemplateQuadGrid        TemplateType = "quad-grid"
	TemplateThreeCols       TemplateType = "three-cols"
	TemplateThreeRows       TemplateType = "three-rows"
	TemplateHeaderSidebar   TemplateType = "header-sidebar"
)

// templateWebviewURL is the placeholder page template regions open with.
const templateWebviewURL = "https://www.google.com/search?igu=1"

// CreateLayoutFromTemplate replaces the layout's widget set with the regions
// the template defines for the layout's canvas size. Deterministic apart from
// freshly minted ids; the blank template yields no widgets.
func CreateLayoutFromTemplate(base model.Layout, template TemplateType) model.Layout {
	w := float64(base.Width)
	h := float64(base.Height)
	var widgets []model.Widget

	region := func(widgetType model.WidgetType, x, y, width, height float64, zIndex int) model.Widget {
		var props model.WidgetProperties
		if widgetType == model.WidgetWebview {
			props = model.WidgetProperties{"url": templateWebviewURL}
		} else {
			props = model.WidgetProperties{"fitMode": "cover"}
			props.SetPlaylist([]model.PlaylistItem{{
				ID:       newMediaID(),
				URL:      placeholderImageURL,
				Type:     "image",
				Duration: model.DefaultImageDuration,
			}})
		}
		return model.Widget{
			ID:         newWidgetID(),
			Type:       widgetType,
			X:          x,
			Y:          y,
			Width:      width,
			Height:     height,
			ZIndex:     zIndex,
			Properties: props,
		}
	}

	switch template {
	case TemplateSplitHorizontal:
		widgets = append(widgets, region(model.WidgetWebview, 0, 0, w/2, h, 1))
		widgets = append(widgets, region(model.WidgetImage, w/2, 0, w/2, h, 2))

	case TemplateSplitVertical:
		widgets = append(widgets, region(model.WidgetWebview, 0, 0, w, h/2, 1))
		widgets = append(widgets, region(model.WidgetImage, 0, h/2, w, h/2, 2))

	case TemplateSidebarLeft:
		widgets = append(widgets, region(model.WidgetWebview, 0, 0, w*0.3, h, 1))
		widgets = append(widgets, region(model.WidgetImage, w*0.3, 0, w*0.7, h, 2))

	case TemplateQuadGrid:
		widgets = append(widgets, region(model.WidgetWebview, 0, 0, w/2, h/2, 1))
		widgets = append(widgets, region(model.WidgetImage, w/2, 0, w/2, h/2, 2))
		widgets = append(widgets, region(model.WidgetImage, 0, h/2, w/2, h/2, 3))
		widgets = append(widgets, region(model.WidgetWebview, w/2, h/2, w/2, h/2, 4))

	case TemplateThreeCols:
		colW := w / 3
		widgets = append(widgets, region(model.WidgetImage, 0, 0, colW, h, 1))
		widgets = append(widgets, region(model.WidgetWebview, colW, 0, colW, h, 2))
		widgets = append(widgets, region(model.WidgetImage, colW*2, 0, colW, h, 3))

	case TemplateThreeRows:
		rowH := h / 3
		widgets = append(widgets, region(model.WidgetImage, 0, 0, w, rowH, 1))
		widgets = append(widgets, region(model.WidgetWebview, 0, rowH, w, rowH, 2))
		widgets = append(widgets, region(model.WidgetImage, 0, rowH*2, w, rowH, 3))

	case TemplateHeaderSidebar:
		headerH := h * 0.2
		sidebarW := w * 0.25
		widgets = append(widgets, region(model.WidgetImage, 0, 0, w, headerH, 1))
		widgets = append(widgets, region(model.WidgetImage, 0, headerH, sidebarW, h-headerH, 2))
		widgets = append(widgets, region(model.WidgetWebview, sidebarW, headerH, w-sidebarW, h-headerH, 3))

	case TemplateBlank:
		// no widgets
	}

	out := base
	out.Widgets = widgets
	return out
}
