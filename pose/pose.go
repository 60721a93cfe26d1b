// Package pose provides skeleton hierarchy and joint math helpers for
// working with body tracking results.
package pose

import (
	"math"

	k4abt "github.com/swdee/go-k4abt"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// parents maps each joint to its parent in the skeleton hierarchy, the
// pelvis is the root and maps to itself
var parents = [k4abt.JointCount]k4abt.JointID{
	k4abt.JointPelvis:        k4abt.JointPelvis,
	k4abt.JointSpineNavel:    k4abt.JointPelvis,
	k4abt.JointSpineChest:    k4abt.JointSpineNavel,
	k4abt.JointNeck:          k4abt.JointSpineChest,
	k4abt.JointClavicleLeft:  k4abt.JointSpineChest,
	k4abt.JointShoulderLeft:  k4abt.JointClavicleLeft,
	k4abt.JointElbowLeft:     k4abt.JointShoulderLeft,
	k4abt.JointWristLeft:     k4abt.JointElbowLeft,
	k4abt.JointHandLeft:      k4abt.JointWristLeft,
	k4abt.JointHandTipLeft:   k4abt.JointHandLeft,
	k4abt.JointThumbLeft:     k4abt.JointWristLeft,
	k4abt.JointClavicleRight: k4abt.JointSpineChest,
	k4abt.JointShoulderRight: k4abt.JointClavicleRight,
	k4abt.JointElbowRight:    k4abt.JointShoulderRight,
	k4abt.JointWristRight:    k4abt.JointElbowRight,
	k4abt.JointHandRight:     k4abt.JointWristRight,
	k4abt.JointHandTipRight:  k4abt.JointHandRight,
	k4abt.JointThumbRight:    k4abt.JointWristRight,
	k4abt.JointHipLeft:       k4abt.JointPelvis,
	k4abt.JointKneeLeft:      k4abt.JointHipLeft,
	k4abt.JointAnkleLeft:     k4abt.JointKneeLeft,
	k4abt.JointFootLeft:      k4abt.JointAnkleLeft,
	k4abt.JointHipRight:      k4abt.JointPelvis,
	k4abt.JointKneeRight:     k4abt.JointHipRight,
	k4abt.JointAnkleRight:    k4abt.JointKneeRight,
	k4abt.JointFootRight:     k4abt.JointAnkleRight,
	k4abt.JointHead:          k4abt.JointNeck,
	k4abt.JointNose:          k4abt.JointHead,
	k4abt.JointEyeLeft:       k4abt.JointHead,
	k4abt.JointEarLeft:       k4abt.JointHead,
	k4abt.JointEyeRight:      k4abt.JointHead,
	k4abt.JointEarRight:      k4abt.JointHead,
}

// Parent returns the parent joint of the given joint.  The second return
// value is false for the pelvis, which is the hierarchy root
func Parent(j k4abt.JointID) (k4abt.JointID, bool) {

	if j == k4abt.JointPelvis {
		return k4abt.JointPelvis, false
	}

	return parents[j], true
}

// Bones returns the skeleton bone list as parent/child joint pairs, one
// bone for every joint except the pelvis root
func Bones() [][2]k4abt.JointID {

	bones := make([][2]k4abt.JointID, 0, k4abt.JointCount-1)

	for j := k4abt.JointID(1); j < k4abt.JointCount; j++ {
		bones = append(bones, [2]k4abt.JointID{parents[j], j})
	}

	return bones
}

// Vec converts a joint position to a gonum 3D vector
func Vec(p k4abt.Float3) r3.Vec {
	return r3.Vec{
		X: float64(p.X),
		Y: float64(p.Y),
		Z: float64(p.Z),
	}
}

// BoneLength returns the length in millimeters of the bone connecting
// the given joint to its parent, 0 for the pelvis root
func BoneLength(s *k4abt.Skeleton, child k4abt.JointID) float64 {

	parent, ok := Parent(child)

	if !ok {
		return 0
	}

	diff := r3.Sub(Vec(s.Joints[child].Position), Vec(s.Joints[parent].Position))

	return r3.Norm(diff)
}

// Angle returns the angle in degrees at joint b between the segments
// b-a and b-c, for example the elbow flexion angle with a=shoulder,
// b=elbow, c=wrist.  Returns 0 when either segment has zero length
func Angle(s *k4abt.Skeleton, a, b, c k4abt.JointID) float64 {

	ba := r3.Sub(Vec(s.Joints[a].Position), Vec(s.Joints[b].Position))
	bc := r3.Sub(Vec(s.Joints[c].Position), Vec(s.Joints[b].Position))

	lenBA := r3.Norm(ba)
	lenBC := r3.Norm(bc)

	if lenBA == 0 || lenBC == 0 {
		return 0
	}

	cos := r3.Dot(ba, bc) / (lenBA * lenBC)

	// clamp against floating point drift before acos
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}

// Rotate applies a joint orientation quaternion to a vector.  The
// quaternion is normalized first as engine output is only approximately
// unit length
func Rotate(q k4abt.Quaternion, v r3.Vec) r3.Vec {

	n := math.Sqrt(float64(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z))

	if n == 0 {
		return v
	}

	rot := r3.Rotation(quat.Number{
		Real: float64(q.W) / n,
		Imag: float64(q.X) / n,
		Jmag: float64(q.Y) / n,
		Kmag: float64(q.Z) / n,
	})

	return rot.Rotate(v)
}
