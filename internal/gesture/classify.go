package gesture

// Classification is the heuristic verdict for one Shape.
type Classification struct {
	Tag        Tag
	Confidence float64
	Detected   bool
	// Fingers is the number of significant defects the verdict was based on.
	Fingers     int
	AspectRatio float64
}

// NoHand is the classification of a frame without a usable hand region.
var NoHand = Classification{}

// Classify maps a hand shape to a gesture tag using the count of deep
// convexity defects and the bounding box aspect ratio. It recognises
// silhouettes, not signs.
func Classify(shape Shape) Classification {
	c := Classification{Detected: true, AspectRatio: shape.AspectRatio()}

	if shape.DefectErr != nil {
		c.Tag, c.Confidence = TagUnknown, 0.30
		return c
	}
	if len(shape.Defects) == 0 {
		c.Tag, c.Confidence = TagPalm, 0.50
		return c
	}

	c.Fingers = shape.SignificantDefects()
	switch c.Fingers {
	case 0:
		if c.AspectRatio < 0.7 {
			c.Tag, c.Confidence = TagThumbUp, 0.75
		} else {
			c.Tag, c.Confidence = TagFist, 0.80
		}
	case 1:
		c.Tag, c.Confidence = TagVictory, 0.70
	case 2:
		c.Tag, c.Confidence = TagThree, 0.70
	case 3:
		c.Tag, c.Confidence = TagFour, 0.65
	case 4:
		c.Tag, c.Confidence = TagOpenHand, 0.80
	default:
		c.Tag, c.Confidence = TagWave, 0.60
	}
	return c
}
