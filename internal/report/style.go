package report

// Color is an RGB triple in 0..255.
type Color struct {
	R, G, B int
}

// Style holds every layout constant. Sizes and distances are in points.
type Style struct {
	Affirmative Color // selected and correct, or the missed correct answer
	Negative    Color // selected and wrong
	Neutral     Color

	Margin           float64
	MinPageRemaining float64 // space a question heading needs below it
	LineHeight       float64 // for BodySize; other sizes scale from it

	TitleSize   float64
	HeadingSize float64
	BodySize    float64
	SmallSize   float64

	PageWidth  float64
	PageHeight float64
}

// DefaultStyle is US Letter with the original report's fonts and colors.
func DefaultStyle() Style {
	return Style{
		Affirmative:      Color{0, 128, 0},
		Negative:         Color{255, 0, 0},
		Neutral:          Color{0, 0, 0},
		Margin:           50,
		MinPageRemaining: 100,
		LineHeight:       15,
		TitleSize:        16,
		HeadingSize:      12,
		BodySize:         12,
		SmallSize:        10,
		PageWidth:        612,
		PageHeight:       792,
	}
}

// lineHeight returns the vertical advance of one line set at size.
func (s Style) lineHeight(size float64) float64 {
	if s.BodySize <= 0 {
		return s.LineHeight
	}
	return s.LineHeight * size / s.BodySize
}

func (s Style) contentWidth() float64 { return s.PageWidth - 2*s.Margin }

func (s Style) bottom() float64 { return s.PageHeight - s.Margin }
