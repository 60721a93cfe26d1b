package track

import (
	"math"
	"testing"

	k4abt "github.com/swdee/go-k4abt"
)

// testSkeleton returns a skeleton with all joints at the given position
// and confidence
func testSkeleton(pos k4abt.Float3, conf k4abt.ConfidenceLevel) k4abt.Skeleton {

	var s k4abt.Skeleton

	for j := range s.Joints {
		s.Joints[j].Position = pos
		s.Joints[j].Confidence = conf
	}

	return s
}

func TestSmootherFirstFramePassthrough(t *testing.T) {

	s := NewSmoother(1.0/30, 1, 10)

	in := testSkeleton(k4abt.Float3{X: 100, Y: 200, Z: 300}, k4abt.ConfidenceMedium)

	out := s.Smooth(in)

	// the first frame seeds the filters and passes through unchanged
	if out != in {
		t.Error("first frame was not passed through unchanged")
	}
}

func TestSmootherStationaryBody(t *testing.T) {

	s := NewSmoother(1.0/30, 1, 10)

	in := testSkeleton(k4abt.Float3{X: 100, Y: 200, Z: 300}, k4abt.ConfidenceMedium)

	// a stationary body must stay exactly where it is, the filter seeds
	// with zero velocity so prediction and measurement agree
	for i := 0; i < 5; i++ {

		out := s.Smooth(in)

		for j := range out.Joints {

			got := out.Joints[j].Position

			if math.Abs(float64(got.X-100)) > 1e-3 ||
				math.Abs(float64(got.Y-200)) > 1e-3 ||
				math.Abs(float64(got.Z-300)) > 1e-3 {
				t.Fatalf("frame %d joint %d drifted to %+v", i, j, got)
			}
		}
	}
}

func TestSmootherDampsJitter(t *testing.T) {

	// measurement noise much larger than process noise so the filter
	// leans on the motion model
	s := NewSmoother(1.0/30, 0.01, 100)

	base := k4abt.Float3{X: 1000, Y: 0, Z: 2000}

	_ = s.Smooth(testSkeleton(base, k4abt.ConfidenceMedium))
	_ = s.Smooth(testSkeleton(base, k4abt.ConfidenceMedium))

	// a sudden 50mm jump, the smoothed output must land strictly between
	// the old and new positions
	jumped := base
	jumped.X += 50

	out := s.Smooth(testSkeleton(jumped, k4abt.ConfidenceMedium))

	x := out.Joints[k4abt.JointPelvis].Position.X

	if x <= base.X || x >= jumped.X {
		t.Errorf("smoothed X = %f, want strictly between %f and %f",
			x, base.X, jumped.X)
	}
}

func TestSmootherCoastsUnobservedJoints(t *testing.T) {

	s := NewSmoother(1.0/30, 1, 10)

	seen := k4abt.Float3{X: 100, Y: 200, Z: 300}

	_ = s.Smooth(testSkeleton(seen, k4abt.ConfidenceMedium))

	// joint drops out, the engine reports garbage at no confidence
	lost := testSkeleton(k4abt.Float3{X: -9999, Y: -9999, Z: -9999},
		k4abt.ConfidenceNone)

	out := s.Smooth(lost)

	got := out.Joints[k4abt.JointHandLeft].Position

	// the filter coasts on its motion model, zero velocity from the
	// seed, so the joint holds its last observed position
	if math.Abs(float64(got.X-seen.X)) > 1e-3 ||
		math.Abs(float64(got.Y-seen.Y)) > 1e-3 ||
		math.Abs(float64(got.Z-seen.Z)) > 1e-3 {
		t.Errorf("unobserved joint moved to %+v, want %+v", got, seen)
	}
}

func TestSmootherPassesThroughOrientation(t *testing.T) {

	s := NewSmoother(1.0/30, 1, 10)

	in := testSkeleton(k4abt.Float3{X: 1, Y: 2, Z: 3}, k4abt.ConfidenceHigh)
	in.Joints[k4abt.JointHead].Orientation = k4abt.Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}

	_ = s.Smooth(in)
	out := s.Smooth(in)

	if out.Joints[k4abt.JointHead].Orientation != in.Joints[k4abt.JointHead].Orientation {
		t.Error("orientation was modified by smoothing")
	}

	if out.Joints[k4abt.JointHead].Confidence != k4abt.ConfidenceHigh {
		t.Error("confidence was modified by smoothing")
	}
}

func TestSmootherReset(t *testing.T) {

	s := NewSmoother(1.0/30, 1, 10)

	_ = s.Smooth(testSkeleton(k4abt.Float3{X: 100, Y: 100, Z: 100},
		k4abt.ConfidenceMedium))

	s.Reset()

	// after a reset the next frame seeds fresh and passes through
	in := testSkeleton(k4abt.Float3{X: 5000, Y: 5000, Z: 5000},
		k4abt.ConfidenceMedium)

	out := s.Smooth(in)

	if out != in {
		t.Error("frame after Reset was not passed through unchanged")
	}
}
