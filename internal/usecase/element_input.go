package usecase

import (
	"deckbox/internal/domain/entity"
)

// Element defaults applied when a payload omits geometry or style fields,
// mirroring the editor's canvas defaults.
const (
	defaultElementWidth  = 100.0
	defaultElementHeight = 50.0
	defaultOpacity       = 1.0
	defaultFontSize      = "16px"
	defaultFontFamily    = "Arial"
	defaultTextColor     = "#000000"
	defaultTextAlign     = "left"
	defaultFontWeight    = "normal"
	defaultFillColor     = "#cccccc"
)

// ElementInput is the payload for creating or patching an element. All
// fields are optional pointers so a patch can distinguish "unset" from
// "zero"; Kind is required on create. Ownership and parent references are
// never part of the payload — only the customization engine moves elements
// between owners.
type ElementInput struct {
	Kind *entity.ElementKind `json:"kind" validate:"omitempty,oneof=image text shape"`
	Face *entity.Face        `json:"face" validate:"omitempty,oneof=front back"`
	Role *entity.Role        `json:"role" validate:"omitempty,oneof=background illustration overlayShape overlayText title"`

	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Width    *float64 `json:"width" validate:"omitempty,gt=0"`
	Height   *float64 `json:"height" validate:"omitempty,gt=0"`
	Rotation *float64 `json:"rotation"`
	ZIndex   *int     `json:"z_index"`
	Opacity  *float64 `json:"opacity" validate:"omitempty,gte=0,lte=1"`

	ImageURL *string `json:"image_url"`

	Content    *string `json:"content"`
	FontSize   *string `json:"font_size"`
	FontFamily *string `json:"font_family"`
	Color      *string `json:"color"`
	TextAlign  *string `json:"text_align" validate:"omitempty,oneof=left center right justify"`
	FontWeight *string `json:"font_weight"`

	ShapeType    *entity.ShapeType `json:"shape_type" validate:"omitempty,oneof=rectangle circle triangle"`
	FillColor    *string           `json:"fill_color"`
	BorderRadius *float64          `json:"border_radius" validate:"omitempty,gte=0"`
}

// BuildElement materializes a new element from the input, applying defaults
// for every omitted field.
func (in *ElementInput) BuildElement() *entity.Element {
	el := &entity.Element{
		Kind: entity.ElementKindShape,
		Face: entity.FaceFront,
		Role: entity.RoleIllustration,
		Geometry: entity.Geometry{
			Width:   defaultElementWidth,
			Height:  defaultElementHeight,
			Opacity: defaultOpacity,
		},
		Text: entity.TextStyle{
			FontSize:   defaultFontSize,
			FontFamily: defaultFontFamily,
			Color:      defaultTextColor,
			TextAlign:  defaultTextAlign,
			FontWeight: defaultFontWeight,
		},
		Shape: entity.ShapeStyle{
			ShapeType: entity.ShapeRectangle,
			FillColor: defaultFillColor,
		},
	}
	in.ApplyTo(el)

	return el
}

// ApplyTo merges the set fields of the input into an existing element.
func (in *ElementInput) ApplyTo(el *entity.Element) {
	if in.Kind != nil {
		el.Kind = *in.Kind
	}
	if in.Face != nil {
		el.Face = *in.Face
	}
	if in.Role != nil {
		el.Role = *in.Role
	}
	if in.X != nil {
		el.Geometry.X = *in.X
	}
	if in.Y != nil {
		el.Geometry.Y = *in.Y
	}
	if in.Width != nil {
		el.Geometry.Width = *in.Width
	}
	if in.Height != nil {
		el.Geometry.Height = *in.Height
	}
	if in.Rotation != nil {
		el.Geometry.Rotation = *in.Rotation
	}
	if in.ZIndex != nil {
		el.Geometry.ZIndex = *in.ZIndex
	}
	if in.Opacity != nil {
		el.Geometry.Opacity = *in.Opacity
	}
	if in.ImageURL != nil {
		el.ImageURL = *in.ImageURL
	}
	if in.Content != nil {
		el.Text.Content = *in.Content
	}
	if in.FontSize != nil {
		el.Text.FontSize = *in.FontSize
	}
	if in.FontFamily != nil {
		el.Text.FontFamily = *in.FontFamily
	}
	if in.Color != nil {
		el.Text.Color = *in.Color
	}
	if in.TextAlign != nil {
		el.Text.TextAlign = *in.TextAlign
	}
	if in.FontWeight != nil {
		el.Text.FontWeight = *in.FontWeight
	}
	if in.ShapeType != nil {
		el.Shape.ShapeType = *in.ShapeType
	}
	if in.FillColor != nil {
		el.Shape.FillColor = *in.FillColor
	}
	if in.BorderRadius != nil {
		el.Shape.BorderRadius = *in.BorderRadius
	}
}
