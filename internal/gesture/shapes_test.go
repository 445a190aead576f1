package gesture

import (
	"image"
	"image/color"
	"math"
	"testing"

	"gocv.io/x/gocv"
)

// openHandOutline is a palm with five triangular fingers; the four valleys
// between them are roughly 100 px deep.
var openHandOutline = []image.Point{
	{100, 350}, {100, 200},
	{112, 90}, {124, 200}, {144, 200},
	{156, 60}, {168, 200}, {188, 200},
	{200, 50}, {212, 200}, {232, 200},
	{244, 60}, {256, 200}, {276, 200},
	{288, 90}, {300, 200}, {300, 350},
}

// victoryOutline is a palm with two fingers and a single deep valley.
var victoryOutline = []image.Point{
	{120, 350}, {120, 200},
	{140, 60}, {160, 200}, {200, 200},
	{220, 60}, {240, 200}, {240, 350},
}

func regularPolygon(cx, cy, radius float64, sides int) []image.Point {
	pts := make([]image.Point, 0, sides)
	for i := 0; i < sides; i++ {
		a := 2 * math.Pi * float64(i) / float64(sides)
		pts = append(pts, image.Pt(int(math.Round(cx+radius*math.Cos(a))), int(math.Round(cy+radius*math.Sin(a)))))
	}
	return pts
}

// drawSilhouette renders a dark filled polygon on a white 400x400 frame.
func drawSilhouette(t *testing.T, outline []image.Point) gocv.Mat {
	t.Helper()

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 400, 400, gocv.MatTypeCV8UC3)
	if len(outline) == 0 {
		return frame
	}

	pts := gocv.NewPointsVectorFromPoints([][]image.Point{outline})
	defer pts.Close()
	gocv.FillPoly(&frame, pts, color.RGBA{A: 255})

	return frame
}

func describe(t *testing.T, outline []image.Point) Shape {
	t.Helper()

	contour := gocv.NewPointVectorFromPoints(outline)
	defer contour.Close()

	return DescribeContour(contour)
}
