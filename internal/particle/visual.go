package particle

// Visual carries display-only attributes. The engine copies them on clone
// and never reads them; renderers and the glyph updater own their meaning.
type Visual struct {
	Glyph      rune
	GlyphSet   string
	GlyphRate  float64 // glyph changes per second
	LockGlyph  bool
	LastUpdate float64 // seconds, host clock
	Color      string  // explicit colour; empty means derive from phase
	Fade       float64 // trail fade per frame, 0..1
}
