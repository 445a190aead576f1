package gesture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Hand segmentation parameters.
const (
	BlurKernel         = 5
	ThresholdBlockSize = 11
	ThresholdC         = 2

	// MinHandArea is the smallest contour area, in px², treated as a hand.
	MinHandArea = 1000.0

	// SignificantDepth is the convexity-defect depth, in 1/256 px, above which a
	// valley counts as a gap between extended fingers (about 39 px).
	SignificantDepth = 10000

	// NoiseDepth is the depth, in 1/256 px (3 px), below which a defect is
	// pixel-grid noise on a convex outline and is dropped.
	NoiseDepth = 3 * 256
)

// Defect is one convexity defect of a hand contour. Start, End and Far index
// into the contour; Depth is fixed-point (pixels × 256).
type Defect struct {
	Start int
	End   int
	Far   int
	Depth int
}

// Significant reports whether the defect is deep enough to separate two fingers.
func (d Defect) Significant() bool {
	return d.Depth > SignificantDepth
}

// Shape describes the dominant hand contour of a frame.
type Shape struct {
	Area     float64
	Bounds   image.Rectangle
	HullSize int
	// Defects is empty when the hull has three points or fewer, or when the
	// contour has no concavity deeper than NoiseDepth.
	Defects []Defect
	// DefectErr holds an OpenCV failure from the hull or defect computation.
	DefectErr error
}

// AspectRatio returns the bounding box width divided by its height.
func (s Shape) AspectRatio() float64 {
	if s.Bounds.Dy() == 0 {
		return 0
	}
	return float64(s.Bounds.Dx()) / float64(s.Bounds.Dy())
}

// SignificantDefects counts defects deeper than SignificantDepth.
func (s Shape) SignificantDefects() int {
	n := 0
	for _, d := range s.Defects {
		if d.Significant() {
			n++
		}
	}
	return n
}

// ExtractShape segments the largest hand-like region of a BGR frame.
// ok is false when the frame holds no contour of at least MinHandArea. err
// reports a failure of the segmentation itself.
func ExtractShape(frame gocv.Mat) (shape Shape, ok bool, err error) {
	if frame.Empty() {
		return Shape{}, false, nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		if err := gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray); err != nil {
			return Shape{}, false, fmt.Errorf("grayscale: %w", err)
		}
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	if err := gocv.GaussianBlur(gray, &blurred, image.Pt(BlurKernel, BlurKernel), 0, 0, gocv.BorderDefault); err != nil {
		return Shape{}, false, fmt.Errorf("blur: %w", err)
	}

	mask := gocv.NewMat()
	defer mask.Close()
	if err := gocv.AdaptiveThreshold(blurred, &mask, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, ThresholdBlockSize, ThresholdC); err != nil {
		return Shape{}, false, fmt.Errorf("threshold: %w", err)
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	largest, largestArea := -1, 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if largest < 0 || area > largestArea {
			largest, largestArea = i, area
		}
	}
	if largest < 0 || largestArea < MinHandArea {
		return Shape{}, false, nil
	}

	return DescribeContour(contours.At(largest)), true, nil
}

// DescribeContour measures a single contour: area, bounding box, hull and
// convexity defects.
func DescribeContour(contour gocv.PointVector) Shape {
	shape := Shape{
		Area:   gocv.ContourArea(contour),
		Bounds: gocv.BoundingRect(contour),
	}

	hull := gocv.NewMat()
	defer hull.Close()
	if err := gocv.ConvexHull(contour, &hull, false, false); err != nil {
		shape.DefectErr = fmt.Errorf("convex hull: %w", err)
		return shape
	}
	shape.HullSize = hull.Rows()

	if shape.HullSize > 3 {
		shape.Defects, shape.DefectErr = convexityDefects(contour, hull)
	}
	return shape
}

// convexityDefects computes the defects of contour against hull, given as
// CV_32S contour indices, and drops those shallower than NoiseDepth.
func convexityDefects(contour gocv.PointVector, hull gocv.Mat) ([]Defect, error) {
	result := gocv.NewMat()
	defer result.Close()
	if err := gocv.ConvexityDefects(contour, hull, &result); err != nil {
		return nil, fmt.Errorf("convexity defects: %w", err)
	}

	if result.Empty() {
		return nil, nil
	}
	if result.Type() != gocv.MatTypeCV32SC4 {
		return nil, fmt.Errorf("convexity defects: unexpected matrix type %v", result.Type())
	}

	var defects []Defect
	for i := 0; i < result.Rows(); i++ {
		v := result.GetVeciAt(i, 0)
		if int(v[3]) < NoiseDepth {
			continue
		}
		defects = append(defects, Defect{
			Start: int(v[0]),
			End:   int(v[1]),
			Far:   int(v[2]),
			Depth: int(v[3]),
		})
	}
	return defects, nil
}
