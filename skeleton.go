package k4abt

import "fmt"

// JointID identifies one of the 32 skeleton joints tracked by the body
// tracking engine.  Values mirror C.k4abt_joint_id_t and the order is
// fixed by the native SDK
type JointID int

const (
	JointPelvis JointID = iota
	JointSpineNavel
	JointSpineChest
	JointNeck
	JointClavicleLeft
	JointShoulderLeft
	JointElbowLeft
	JointWristLeft
	JointHandLeft
	JointHandTipLeft
	JointThumbLeft
	JointClavicleRight
	JointShoulderRight
	JointElbowRight
	JointWristRight
	JointHandRight
	JointHandTipRight
	JointThumbRight
	JointHipLeft
	JointKneeLeft
	JointAnkleLeft
	JointFootLeft
	JointHipRight
	JointKneeRight
	JointAnkleRight
	JointFootRight
	JointHead
	JointNose
	JointEyeLeft
	JointEarLeft
	JointEyeRight
	JointEarRight

	// JointCount is the fixed number of joints in a skeleton
	JointCount = 32
)

// jointNames is indexed by JointID
var jointNames = [JointCount]string{
	"pelvis", "spine navel", "spine chest", "neck",
	"clavicle left", "shoulder left", "elbow left", "wrist left",
	"hand left", "hand tip left", "thumb left",
	"clavicle right", "shoulder right", "elbow right", "wrist right",
	"hand right", "hand tip right", "thumb right",
	"hip left", "knee left", "ankle left", "foot left",
	"hip right", "knee right", "ankle right", "foot right",
	"head", "nose", "eye left", "ear left", "eye right", "ear right",
}

// String returns the joint name
func (j JointID) String() string {
	if j < 0 || j >= JointCount {
		return fmt.Sprintf("unknown joint %d", int(j))
	}

	return jointNames[j]
}

// ConfidenceLevel wraps C.k4abt_joint_confidence_level_t and indicates
// how reliable the engine considers a joint estimate
type ConfidenceLevel int

const (
	// ConfidenceNone means the joint is out of range or fully occluded
	ConfidenceNone ConfidenceLevel = iota
	// ConfidenceLow means the joint position was predicted rather than
	// observed
	ConfidenceLow
	// ConfidenceMedium means the joint was observed by the depth camera
	ConfidenceMedium
	// ConfidenceHigh is reserved by the SDK for future use
	ConfidenceHigh
)

// String returns a readable description of the confidence level
func (c ConfidenceLevel) String() string {
	switch c {
	case ConfidenceNone:
		return "none"
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return fmt.Sprintf("unknown confidence level %d", int(c))
	}
}

// Float2 is a 2D coordinate in pixels
type Float2 struct {
	X, Y float32
}

// Float3 is a 3D coordinate in millimeters
type Float3 struct {
	X, Y, Z float32
}

// Quaternion is a rotation in wxyz order
type Quaternion struct {
	W, X, Y, Z float32
}

// Joint holds one tracked joint estimate
type Joint struct {
	// Position of the joint in millimeters, in the depth camera 3D
	// coordinate system
	Position Float3
	// Orientation of the joint as a normalized rotation quaternion
	Orientation Quaternion
	// Confidence the engine assigned to this estimate
	Confidence ConfidenceLevel
}

// Skeleton is the fixed ordered set of joints describing one detected
// body's pose
type Skeleton struct {
	Joints [JointCount]Joint
}

// InvalidBodyID is the reserved body identifier meaning "no body"
const InvalidBodyID uint32 = 0xFFFFFFFF

// BackgroundIndex is the body index map pixel value for pixels that do
// not belong to any detected body
const BackgroundIndex uint8 = 255

// Body pairs a stable body identifier with its skeleton.  The identifier
// is kept stable by the engine across frames for as long as the person
// remains tracked
type Body struct {
	ID       uint32
	Skeleton Skeleton
}
