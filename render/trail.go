package render

import (
	"image/color"

	"github.com/swdee/go-k4abt/track"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// same color as that of the body.  If set to false then use the
	// color specified at LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	// CircleSame defines if the color of the current position circle
	// should be the same color as that of the body.  If set to false
	// then use the color specified at CircleColor
	CircleSame   bool
	CircleColor  color.RGBA
	CircleRadius int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleSame:    true,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// Trail draws the movement trail lines for the given body IDs on the
// source image
func Trail(img *gocv.Mat, ids []uint32, trail *track.Trail, style TrailStyle) {

	for _, id := range ids {

		bodyClr := BodyColor(id)

		// determine style colors to use
		lineClr := bodyClr
		circleClr := bodyClr

		if !style.LineSame {
			lineClr = style.LineColor
		}

		if !style.CircleSame {
			circleClr = style.CircleColor
		}

		// draw trail line showing movement history
		points := trail.GetPoints(id)

		if len(points) < 2 {
			continue
		}

		for i := 1; i < len(points); i++ {
			gocv.Line(img, points[i-1], points[i], lineClr, style.LineThickness)

			if i == len(points)-1 {
				// circle on the current position
				gocv.Circle(img, points[i], style.CircleRadius, circleClr, -1)
			}
		}
	}
}
