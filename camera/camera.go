// Package camera provides an orbit camera for viewing the ocean surface.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/swell/config"
)

// Pitch limits keep the camera from flipping over the poles.
const (
	MinPitchDeg = -89.0
	MaxPitchDeg = 89.0
)

// Camera orbits a target point at a fixed distance.
// Yaw 0 looks from +X toward the target; pitch 90 looks straight down.
type Camera struct {
	// Target is the point the camera looks at
	Target mgl64.Vec3

	// Orbit angles in degrees
	YawDeg, PitchDeg float64

	// Distance from target, clamped to [MinDistance, MaxDistance]
	Distance                 float64
	MinDistance, MaxDistance float64

	// Vertical field of view in degrees
	FovyDeg float64
}

// New creates a camera orbiting the origin.
func New(distance, yawDeg, pitchDeg float64) *Camera {
	c := &Camera{
		YawDeg:      yawDeg,
		Distance:    distance,
		MinDistance: 1,
		MaxDistance: math.Max(distance*10, 1),
		FovyDeg:     45,
	}
	c.Rotate(0, pitchDeg)
	return c
}

// FromConfig creates a camera from the camera section of the config.
func FromConfig(cfg config.CameraConfig) *Camera {
	c := &Camera{
		YawDeg:      cfg.YawDeg,
		MinDistance: cfg.MinDistance,
		MaxDistance: cfg.MaxDistance,
		FovyDeg:     cfg.FovyDeg,
	}
	c.Distance = clamp(cfg.Distance, c.MinDistance, c.MaxDistance)
	c.Rotate(0, cfg.PitchDeg)
	return c
}

// Position returns the camera's world position.
func (c *Camera) Position() mgl64.Vec3 {
	return c.Target.Add(c.offset())
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 {
	return c.offset().Mul(-1 / c.Distance)
}

// offset is the vector from target to camera.
func (c *Camera) offset() mgl64.Vec3 {
	yaw := mgl64.DegToRad(c.YawDeg)
	pitch := mgl64.DegToRad(c.PitchDeg)
	ground := c.Distance * math.Cos(pitch)
	return mgl64.Vec3{
		ground * math.Cos(yaw),
		c.Distance * math.Sin(pitch),
		ground * math.Sin(yaw),
	}
}

// Rotate adds to the orbit angles. Yaw wraps to [0, 360); pitch is clamped.
func (c *Camera) Rotate(dYawDeg, dPitchDeg float64) {
	c.YawDeg = math.Mod(c.YawDeg+dYawDeg, 360)
	if c.YawDeg < 0 {
		c.YawDeg += 360
	}
	c.PitchDeg = clamp(c.PitchDeg+dPitchDeg, MinPitchDeg, MaxPitchDeg)
}

// Zoom scales the orbit distance. factor > 1 moves away.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Pan moves the target in the horizontal plane, relative to the view:
// right moves along the screen's right axis, forward along the ground
// projection of the view direction.
func (c *Camera) Pan(right, forward float64) {
	yaw := mgl64.DegToRad(c.YawDeg)
	fwd := mgl64.Vec3{-math.Cos(yaw), 0, -math.Sin(yaw)}
	rgt := mgl64.Vec3{-fwd.Z(), 0, fwd.X()}
	c.Target = c.Target.Add(rgt.Mul(right)).Add(fwd.Mul(forward))
}

// Frame centers the target and picks a distance that fits a square of the
// given side length in the vertical field of view.
func (c *Camera) Frame(center mgl64.Vec3, extent float64) {
	c.Target = center
	half := mgl64.DegToRad(c.FovyDeg) / 2
	if half <= 0 {
		return
	}
	c.Distance = clamp(extent/2/math.Tan(half), c.MinDistance, c.MaxDistance)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
