package pointcloud

import (
	"encoding/binary"
	"math"
	"testing"
)

// almostEqual checks if two float32 values are approximately equal
func almostEqual(a, b, tolerance float32) bool {
	return math.Abs(float64(a-b)) <= float64(tolerance)
}

func TestPack(t *testing.T) {

	// millimeter triplets as produced by the depth transformation
	xyz := []int16{
		1000, -500, 2500,
		0, 0, 0,
		-32000, 32000, 1,
	}

	p, err := Pack(xyz)

	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	if p.Count() != 3 {
		t.Fatalf("Count = %d, want 3", p.Count())
	}

	// half precision holds about 3 decimal digits, depth values in the
	// sensor's working range stay within a few millimeters
	tests := []struct {
		idx  int
		want Point
		tol  float32
	}{
		{0, Point{X: 1, Y: -0.5, Z: 2.5}, 0.001},
		{1, Point{}, 0},
		{2, Point{X: -32, Y: 32, Z: 0.001}, 0.02},
	}

	for _, tc := range tests {

		got := p.At(tc.idx)

		if !almostEqual(got.X, tc.want.X, tc.tol) ||
			!almostEqual(got.Y, tc.want.Y, tc.tol) ||
			!almostEqual(got.Z, tc.want.Z, tc.tol) {
			t.Errorf("point %d = %+v, want %+v", tc.idx, got, tc.want)
		}
	}
}

func TestPackBadLength(t *testing.T) {

	if _, err := Pack([]int16{1, 2}); err == nil {
		t.Error("expected error for partial triplet")
	}

	if _, err := PackBuffer(make([]byte, 10)); err == nil {
		t.Error("expected error for buffer not holding whole points")
	}

	if _, err := FromBytes(make([]byte, 8)); err == nil {
		t.Error("expected error restoring from a truncated buffer")
	}
}

func TestPackBuffer(t *testing.T) {

	// raw image buffer layout, little endian int16 triplets
	xyz := []int16{250, -1000, 3000}
	buf := make([]byte, 6)

	for i, v := range xyz {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}

	p, err := PackBuffer(buf)

	if err != nil {
		t.Fatalf("PackBuffer failed: %v", err)
	}

	got := p.At(0)

	if !almostEqual(got.X, 0.25, 0.001) ||
		!almostEqual(got.Y, -1, 0.001) ||
		!almostEqual(got.Z, 3, 0.002) {
		t.Errorf("point = %+v, want {0.25 -1 3}", got)
	}
}

func TestPoints(t *testing.T) {

	p, err := Pack([]int16{100, 200, 300, 400, 500, 600})

	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	pts := p.Points()

	if len(pts) != 2 {
		t.Fatalf("Points returned %d points, want 2", len(pts))
	}

	if pts[0] != p.At(0) || pts[1] != p.At(1) {
		t.Error("Points disagrees with At")
	}
}

func TestBytesRoundTrip(t *testing.T) {

	p, err := Pack([]int16{1500, -2500, 4000, 10, 20, 30})

	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	restored, err := FromBytes(p.Bytes())

	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}

	if restored.Count() != p.Count() {
		t.Fatalf("restored Count = %d, want %d", restored.Count(), p.Count())
	}

	// serialization is lossless, the packed bits travel unchanged
	for i := 0; i < p.Count(); i++ {
		if restored.At(i) != p.At(i) {
			t.Errorf("point %d changed across serialization: %+v != %+v",
				i, restored.At(i), p.At(i))
		}
	}
}

func TestEmptyCloud(t *testing.T) {

	p, err := Pack(nil)

	if err != nil {
		t.Fatalf("Pack of empty input failed: %v", err)
	}

	if p.Count() != 0 || len(p.Points()) != 0 || len(p.Bytes()) != 0 {
		t.Error("empty cloud is not empty")
	}
}
