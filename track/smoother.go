package track

import (
	k4abt "github.com/swdee/go-k4abt"
	"gonum.org/v1/gonum/mat"
)

// jointFilter holds the Kalman state for one joint, position and
// velocity over x, y, z
type jointFilter struct {
	// x is the 6 element state vector [px py pz vx vy vz]
	x *mat.VecDense
	// p is the 6x6 state covariance
	p *mat.Dense
	// seeded is set once the filter has seen its first measurement
	seeded bool
}

// Smoother applies a constant velocity Kalman filter to each joint of a
// skeleton stream, for consumers wanting stabilization beyond the
// engine's own temporal smoothing.  Joints reported with no confidence
// are predicted from the motion model instead of updated, bridging short
// occlusions.
//
// A Smoother tracks one body, feed it the same body's skeleton each
// frame and Reset it when the track is lost
type Smoother struct {
	// motionMat is the 6x6 constant velocity transition matrix
	motionMat *mat.Dense
	// updateMat is the 3x6 matrix projecting state to measurement space
	updateMat *mat.Dense
	// processNoise is the motion model variance
	processNoise float64
	// measureNoise is the measurement variance
	measureNoise float64
	filters      [k4abt.JointCount]jointFilter
}

// NewSmoother returns a smoother for frames dt apart in seconds.
// processNoise sets how much the motion model is trusted and
// measureNoise how much the engine's joint estimates are, larger
// processNoise relative to measureNoise follows measurements more
// closely
func NewSmoother(dt, processNoise, measureNoise float64) *Smoother {

	// identity matrix with dt terms linking position to velocity
	motionMat := mat.NewDense(6, 6, nil)

	for i := 0; i < 6; i++ {
		motionMat.Set(i, i, 1.0)
	}

	for i := 0; i < 3; i++ {
		motionMat.Set(i, 3+i, dt)
	}

	// 3x6 matrix with first 3 diagonal elements set to 1
	updateMat := mat.NewDense(3, 6, nil)

	for i := 0; i < 3; i++ {
		updateMat.Set(i, i, 1.0)
	}

	return &Smoother{
		motionMat:    motionMat,
		updateMat:    updateMat,
		processNoise: processNoise,
		measureNoise: measureNoise,
	}
}

// Reset drops all filter state, call when the tracked body is lost so a
// new appearance is not smoothed against stale motion
func (s *Smoother) Reset() {
	for i := range s.filters {
		s.filters[i] = jointFilter{}
	}
}

// Smooth filters one frame's skeleton and returns the stabilized
// skeleton.  Orientation and confidence values pass through unchanged
func (s *Smoother) Smooth(skel k4abt.Skeleton) k4abt.Skeleton {

	out := skel

	for j := 0; j < k4abt.JointCount; j++ {

		joint := skel.Joints[j]
		f := &s.filters[j]

		if !f.seeded {
			s.seed(f, joint.Position)
			continue
		}

		s.predict(f)

		// a joint with no confidence was not observed, coast on the
		// motion model
		if joint.Confidence != k4abt.ConfidenceNone {
			s.update(f, joint.Position)
		}

		out.Joints[j].Position = k4abt.Float3{
			X: float32(f.x.AtVec(0)),
			Y: float32(f.x.AtVec(1)),
			Z: float32(f.x.AtVec(2)),
		}
	}

	return out
}

// seed initializes a joint filter at the first measurement with zero
// velocity
func (s *Smoother) seed(f *jointFilter, pos k4abt.Float3) {

	f.x = mat.NewVecDense(6, []float64{
		float64(pos.X), float64(pos.Y), float64(pos.Z), 0, 0, 0,
	})

	f.p = mat.NewDense(6, 6, nil)

	for i := 0; i < 3; i++ {
		f.p.Set(i, i, s.measureNoise)
	}

	// velocity is unknown at seed time
	for i := 3; i < 6; i++ {
		f.p.Set(i, i, s.processNoise*100)
	}

	f.seeded = true
}

// predict advances the state one frame through the motion model
func (s *Smoother) predict(f *jointFilter) {

	// x = F x
	var xNext mat.VecDense
	xNext.MulVec(s.motionMat, f.x)
	f.x.CopyVec(&xNext)

	// P = F P Ft + Q
	var fp, fpft mat.Dense
	fp.Mul(s.motionMat, f.p)
	fpft.Mul(&fp, s.motionMat.T())

	for i := 0; i < 6; i++ {
		fpft.Set(i, i, fpft.At(i, i)+s.processNoise)
	}

	f.p.Copy(&fpft)
}

// update corrects the predicted state with a measured joint position
func (s *Smoother) update(f *jointFilter, pos k4abt.Float3) {

	z := mat.NewVecDense(3, []float64{
		float64(pos.X), float64(pos.Y), float64(pos.Z),
	})

	// innovation y = z - H x
	var hx, y mat.VecDense
	hx.MulVec(s.updateMat, f.x)
	y.SubVec(z, &hx)

	// S = H P Ht + R
	var hp, hpht mat.Dense
	hp.Mul(s.updateMat, f.p)
	hpht.Mul(&hp, s.updateMat.T())

	for i := 0; i < 3; i++ {
		hpht.Set(i, i, hpht.At(i, i)+s.measureNoise)
	}

	// K = P Ht S^-1
	var sInv mat.Dense

	if err := sInv.Inverse(&hpht); err != nil {
		// singular innovation covariance, skip the correction
		return
	}

	var pht, k mat.Dense
	pht.Mul(f.p, s.updateMat.T())
	k.Mul(&pht, &sInv)

	// x = x + K y
	var ky mat.VecDense
	ky.MulVec(&k, &y)
	f.x.AddVec(f.x, &ky)

	// P = (I - K H) P
	var kh mat.Dense
	kh.Mul(&k, s.updateMat)

	eye := mat.NewDense(6, 6, nil)

	for i := 0; i < 6; i++ {
		eye.Set(i, i, 1.0)
	}

	var ikh, pNext mat.Dense
	ikh.Sub(eye, &kh)
	pNext.Mul(&ikh, f.p)
	f.p.Copy(&pNext)
}
