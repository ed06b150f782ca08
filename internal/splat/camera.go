package splat

import "math"

// Coordinate convention: X=right, Y=forward, Z=up in the world frame.
// Yaw is measured clockwise from +Y around Z; pitch tilts the view
// direction around the camera's right axis (positive looks up).
// This matches the sensor-frame convention used across the codebase.

// Camera is a posed viewpoint. Rotation is the world-to-camera rotation
// stored row-major (rows: right, up, forward); camera-space depth is
// the forward component. Height records the scalar sweep parameter, in
// world units, that produced this pose (zero for dataset cameras).
type Camera struct {
	Position [3]float64
	Rotation [9]float64
	Yaw      float64 // degrees
	Pitch    float64 // degrees
	Height   float64 // world units
}

// NewCamera builds a camera at position looking along the direction
// given by yaw and pitch, both in degrees.
func NewCamera(position [3]float64, yawDeg, pitchDeg float64) Camera {
	return Camera{
		Position: position,
		Rotation: lookRotation(yawDeg, pitchDeg),
		Yaw:      yawDeg,
		Pitch:    pitchDeg,
	}
}

// WithHeightPitch derives a new pose from c by substituting the world
// Z coordinate with height and re-orienting to the given pitch. All
// other extrinsics (planar position, yaw) are reused.
func (c Camera) WithHeightPitch(height, pitchDeg float64) Camera {
	pos := c.Position
	pos[2] = height
	out := NewCamera(pos, c.Yaw, pitchDeg)
	out.Height = height
	return out
}

// CameraSpace transforms world point p into camera space: R*(p - C).
func (c Camera) CameraSpace(p [3]float64) [3]float64 {
	dx := p[0] - c.Position[0]
	dy := p[1] - c.Position[1]
	dz := p[2] - c.Position[2]
	r := c.Rotation
	return [3]float64{
		r[0]*dx + r[1]*dy + r[2]*dz,
		r[3]*dx + r[4]*dy + r[5]*dz,
		r[6]*dx + r[7]*dy + r[8]*dz,
	}
}

// Depth returns the camera-space forward (depth) component of p.
func (c Camera) Depth(p [3]float64) float64 {
	r := c.Rotation
	return r[6]*(p[0]-c.Position[0]) + r[7]*(p[1]-c.Position[1]) + r[8]*(p[2]-c.Position[2])
}

// Distance returns the Euclidean distance from the camera centre to p.
func (c Camera) Distance(p [3]float64) float64 {
	dx := p[0] - c.Position[0]
	dy := p[1] - c.Position[1]
	dz := p[2] - c.Position[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// lookRotation builds the world-to-camera rotation for the given yaw
// and pitch. Rows are the camera's right, up and forward axes.
func lookRotation(yawDeg, pitchDeg float64) [9]float64 {
	yaw := yawDeg * math.Pi / 180.0
	pitch := pitchDeg * math.Pi / 180.0

	sinYaw, cosYaw := math.Sin(yaw), math.Cos(yaw)
	sinPitch, cosPitch := math.Sin(pitch), math.Cos(pitch)

	forward := [3]float64{cosPitch * sinYaw, cosPitch * cosYaw, sinPitch}
	right := [3]float64{cosYaw, -sinYaw, 0}
	up := cross(right, forward)

	return [9]float64{
		right[0], right[1], right[2],
		up[0], up[1], up[2],
		forward[0], forward[1], forward[2],
	}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
