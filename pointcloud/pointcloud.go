// Package pointcloud packs XYZ point cloud images produced by the
// transformation engine into a compact half precision form for storage
// or transmission.
package pointcloud

import (
	"encoding/binary"
	"fmt"

	"github.com/x448/float16"
)

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// Point is a 3D point in meters
type Point struct {
	X, Y, Z float32
}

// Packed is a point cloud with each coordinate stored as an IEEE half
// precision float in meters, 6 bytes per point.  Points at the origin
// are invalid depth pixels
type Packed struct {
	bits []uint16
}

// Pack converts raw XYZ triplets in millimeters, as laid out in a
// DepthToPointCloud image, into a packed cloud in meters
func Pack(xyz []int16) (Packed, error) {

	if len(xyz)%3 != 0 {
		return Packed{}, fmt.Errorf("xyz length %d is not a multiple of 3", len(xyz))
	}

	bits := make([]uint16, len(xyz))

	for i, v := range xyz {
		bits[i] = float16.Fromfloat32(float32(v) / 1000.0).Bits()
	}

	return Packed{bits: bits}, nil
}

// PackBuffer converts the raw buffer of an XYZ point cloud image, little
// endian int16 triplets, into a packed cloud
func PackBuffer(buf []byte) (Packed, error) {

	if len(buf)%6 != 0 {
		return Packed{}, fmt.Errorf("buffer length %d is not a multiple of 6", len(buf))
	}

	xyz := make([]int16, len(buf)/2)

	for i := range xyz {
		xyz[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	return Pack(xyz)
}

// Count returns the number of points in the cloud
func (p Packed) Count() int {
	return len(p.bits) / 3
}

// At returns the point at the given index
func (p Packed) At(i int) Point {
	return Point{
		X: f16LookupTable[p.bits[i*3]],
		Y: f16LookupTable[p.bits[i*3+1]],
		Z: f16LookupTable[p.bits[i*3+2]],
	}
}

// Points unpacks the whole cloud
func (p Packed) Points() []Point {

	pts := make([]Point, p.Count())

	for i := range pts {
		pts[i] = p.At(i)
	}

	return pts
}

// Bytes serializes the packed cloud as little endian uint16 values
func (p Packed) Bytes() []byte {

	out := make([]byte, len(p.bits)*2)

	for i, b := range p.bits {
		binary.LittleEndian.PutUint16(out[i*2:], b)
	}

	return out
}

// FromBytes restores a packed cloud serialized with Bytes
func FromBytes(b []byte) (Packed, error) {

	if len(b)%6 != 0 {
		return Packed{}, fmt.Errorf("buffer length %d is not a multiple of 6", len(b))
	}

	bits := make([]uint16, len(b)/2)

	for i := range bits {
		bits[i] = binary.LittleEndian.Uint16(b[i*2:])
	}

	return Packed{bits: bits}, nil
}
