package detection

import (
	"errors"
	"fmt"
	"math"
)

// Detection is one bounding box observed in one frame.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	XTL        float64 `json:"xtl"`
	YTL        float64 `json:"ytl"`
	XBR        float64 `json:"xbr"`
	YBR        float64 `json:"ybr"`
}

// ErrMalformedDetection marks detections rejected by box validation.
var ErrMalformedDetection = errors.New("malformed detection")

// MalformedDetectionError reports a detection whose geometry failed validation.
type MalformedDetectionError struct {
	Frame  int
	Index  int
	Label  string
	Reason string
}

func (e *MalformedDetectionError) Error() string {
	return fmt.Sprintf("frame %d detection %d (%q): %s", e.Frame, e.Index, e.Label, e.Reason)
}

func (e *MalformedDetectionError) Unwrap() error {
	return ErrMalformedDetection
}

// Validate checks that the box coordinates are finite and correctly ordered.
// Values are never clamped; the first problem found is returned.
func (d Detection) Validate() error {
	for _, v := range []float64{d.XTL, d.YTL, d.XBR, d.YBR} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("non-finite coordinate")
		}
	}
	if d.XTL >= d.XBR {
		return fmt.Errorf("xtl %v is not left of xbr %v", d.XTL, d.XBR)
	}
	if d.YTL >= d.YBR {
		return fmt.Errorf("ytl %v is not above ybr %v", d.YTL, d.YBR)
	}
	return nil
}

// ValidateFrame validates every detection in a frame and wraps the first
// failure in a MalformedDetectionError.
func ValidateFrame(frame int, dets []Detection) error {
	for i, d := range dets {
		if err := d.Validate(); err != nil {
			return &MalformedDetectionError{Frame: frame, Index: i, Label: d.Label, Reason: err.Error()}
		}
	}
	return nil
}
