package component

import "image/color"

// Sprite is the renderable description of an entity. Renderers resolve Name
// to an image; when none is found they draw a Width x Height placeholder in
// Color.
type Sprite struct {
	Name       string
	Color      color.NRGBA
	Width      float64
	Height     float64
	OriginX    float64
	OriginY    float64
	FacingLeft bool
	FlipY      bool
	// Order sorts sprites drawn at the same layer; lower draws first.
	Order int
	// Tint, Alpha and the offset are written by combat feedback each frame.
	Tint    color.Color
	Alpha   float64
	OffsetX float64
	OffsetY float64
	Hidden  bool
}

var SpriteComponent = NewComponent[Sprite]()
