package offcanvas

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a position and rotation pair.
type Pose struct {
	Pos   mgl64.Vec2
	Angle float64
}

// Transform is the spatial component of a renderable entity. Size is the full
// extent of the sprite box, Pos and Angle are relative to the parent. Vel and
// AVel are consumed by Integrate; the renderer itself only reads Size, Pos and
// Angle.
type Transform struct {
	Size  mgl64.Vec2
	Pos   mgl64.Vec2
	Angle float64
	Vel   mgl64.Vec2
	AVel  float64
	Last  Pose
}

// TransformBytes is the length of a serialized Transform: eleven float64s.
const TransformBytes = 11 * 8

// NewTransform returns a transform at rest with Last equal to the current pose.
func NewTransform(size, pos mgl64.Vec2) Transform {
	return Transform{
		Size: size,
		Pos:  pos,
		Last: Pose{Pos: pos},
	}
}

// Clone returns a copy of t. Transform holds no references, so this is a
// plain value copy; it exists for symmetry with the scene-side helpers.
func (t *Transform) Clone() Transform {
	return *t
}

// Pose returns the current position and angle.
func (t *Transform) Pose() Pose {
	return Pose{Pos: t.Pos, Angle: t.Angle}
}

// Integrate stores the current pose in Last and advances Pos and Angle by the
// velocities. dt is in milliseconds; speed scales velocities given in units
// per second.
func (t *Transform) Integrate(dt, speed float64) {
	t.Last = t.Pose()
	k := dt * speed / 1000
	t.Pos = t.Pos.Add(t.Vel.Mul(k))
	t.Angle += t.AVel * k
}

// Interpolate returns the pose between Last (alpha 0) and the current pose
// (alpha 1).
func (t *Transform) Interpolate(alpha float64) Pose {
	return Pose{
		Pos:   t.Last.Pos.Add(t.Pos.Sub(t.Last.Pos).Mul(alpha)),
		Angle: t.Last.Angle + (t.Angle-t.Last.Angle)*alpha,
	}
}

// Serialize writes the transform as eleven little-endian float64 values in
// the order size, pos, angle, vel, avel, last pos, last angle.
func (t *Transform) Serialize() []byte {
	return t.AppendBinary(make([]byte, 0, TransformBytes))
}

// AppendBinary appends the serialized transform to b.
func (t *Transform) AppendBinary(b []byte) []byte {
	for _, v := range [11]float64{
		t.Size[0], t.Size[1],
		t.Pos[0], t.Pos[1],
		t.Angle,
		t.Vel[0], t.Vel[1],
		t.AVel,
		t.Last.Pos[0], t.Last.Pos[1],
		t.Last.Angle,
	} {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	return b
}

// DeserializeTransform reverses Serialize.
func DeserializeTransform(b []byte) (Transform, error) {
	if len(b) != TransformBytes {
		return Transform{}, fmt.Errorf("offcanvas: transform buffer of %d bytes: %w", len(b), ErrTransformBuffer)
	}
	var v [11]float64
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return Transform{
		Size:  mgl64.Vec2{v[0], v[1]},
		Pos:   mgl64.Vec2{v[2], v[3]},
		Angle: v[4],
		Vel:   mgl64.Vec2{v[5], v[6]},
		AVel:  v[7],
		Last:  Pose{Pos: mgl64.Vec2{v[8], v[9]}, Angle: v[10]},
	}, nil
}

// --- Affine ---

// Affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// SurfaceAffine returns the base transform of a backing store of the given
// pixel dimensions: scale by dpr, flip y, origin at the center.
func SurfaceAffine(d Dims, dpr float64) Affine {
	return Affine{dpr, 0, 0, -dpr, float64(d.W) / 2, float64(d.H) / 2}
}

// Multiply returns p * c (c is applied first).
func (p Affine) Multiply(c Affine) Affine {
	return Affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// Translate returns m followed by a local translation.
func (m Affine) Translate(x, y float64) Affine {
	return m.Multiply(Affine{1, 0, 0, 1, x, y})
}

// Rotate returns m followed by a local rotation in radians.
func (m Affine) Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return m.Multiply(Affine{cos, sin, -sin, cos, 0, 0})
}

// Scale returns m followed by a local scale.
func (m Affine) Scale(sx, sy float64) Affine {
	return m.Multiply(Affine{sx, 0, 0, sy, 0, 0})
}

// Apply maps a point through m.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Invert returns the inverse of m, or the identity if m is singular.
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}
