package render

import (
	"fmt"
	"image"

	k4abt "github.com/swdee/go-k4abt"
	"github.com/swdee/go-k4abt/pose"
	"gocv.io/x/gocv"
)

// Joints2D holds one body's joints projected onto the image plane being
// rendered
type Joints2D struct {
	// Points are the projected joint pixel positions indexed by JointID
	Points [k4abt.JointCount]image.Point
	// Valid is false for joints falling outside the camera view
	Valid [k4abt.JointCount]bool
	// Confidence of each joint estimate
	Confidence [k4abt.JointCount]k4abt.ConfidenceLevel
}

// ProjectSkeleton projects a skeleton's 3D joint positions onto the
// target camera's image plane using the device calibration
func ProjectSkeleton(cal *k4abt.Calibration, s *k4abt.Skeleton,
	target k4abt.CalibrationType) (Joints2D, error) {

	var out Joints2D

	for j := 0; j < k4abt.JointCount; j++ {

		joint := s.Joints[j]

		pt, valid, err := cal.Convert3DTo2D(joint.Position,
			k4abt.CalibrationTypeDepth, target)

		if err != nil {
			return Joints2D{}, fmt.Errorf("error projecting joint %s: %w",
				k4abt.JointID(j), err)
		}

		out.Points[j] = image.Pt(int(pt.X), int(pt.Y))
		out.Valid[j] = valid
		out.Confidence[j] = joint.Confidence
	}

	return out, nil
}

// Skeleton renders one body's projected skeleton, bone lines between
// joint pairs and a circle at each joint.  Joints outside the camera
// view or with no confidence are skipped, low confidence joints are
// drawn gray
func Skeleton(img *gocv.Mat, joints Joints2D, bodyID uint32, lineThickness int) {

	clr := BodyColor(bodyID)

	// draw skeleton bone lines
	for _, bone := range pose.Bones() {

		parent, child := bone[0], bone[1]

		if !drawable(joints, parent) || !drawable(joints, child) {
			continue
		}

		gocv.Line(img, joints.Points[parent], joints.Points[child], clr,
			lineThickness)
	}

	// draw circles at joints
	for j := 0; j < k4abt.JointCount; j++ {

		if !drawable(joints, k4abt.JointID(j)) {
			continue
		}

		jointClr := clr

		if joints.Confidence[j] == k4abt.ConfidenceLow {
			jointClr = Gray
		}

		gocv.Circle(img, joints.Points[j], 3, jointClr, -1)
	}
}

// drawable reports whether a joint has a usable projection
func drawable(joints Joints2D, j k4abt.JointID) bool {
	return joints.Valid[j] && joints.Confidence[j] != k4abt.ConfidenceNone
}

// BodyLabel renders a text label above the given anchor point on a
// filled background box colored for the body
func BodyLabel(img *gocv.Mat, text string, at image.Point, bodyID uint32, font Font) {

	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	var centerX int

	switch font.Alignment {
	case Right:
		centerX = at.X - (textSize.X / 2) - font.RightPad
	case Left:
		centerX = at.X + (textSize.X / 2) + font.LeftPad
	case Center:
		fallthrough
	default:
		centerX = at.X
	}

	// background box above the anchor
	bRect := image.Rect(
		centerX-textSize.X/2-font.LeftPad,
		at.Y-textSize.Y-font.TopPad-font.BottomPad,
		centerX+textSize.X/2+font.RightPad,
		at.Y,
	)

	gocv.Rectangle(img, bRect, BodyColor(bodyID), -1)

	textPos := image.Pt(centerX-textSize.X/2, at.Y-font.BottomPad)

	gocv.PutTextWithParams(img, text, textPos, font.Face, font.Scale,
		font.Color, font.Thickness, font.LineType, false)
}
