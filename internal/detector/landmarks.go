package detector

// Hand landmark indices following the MediaPipe hand model.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21

	// VectorLength is the size of a flattened landmark vector.
	VectorLength = NumLandmarks * 3
)

// Point3D is a landmark in normalised image coordinates; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks holds the 21 landmarks of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"`
	Score      float64               `json:"score"`
}

// Vector flattens the landmarks to x0, y0, z0, x1, ... in landmark order.
func (h HandLandmarks) Vector() []float32 {
	v := make([]float32, 0, VectorLength)
	for _, p := range h.Points {
		v = append(v, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return v
}
