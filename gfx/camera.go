package gfx

// Camera describes the viewing transform.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVYRad float32
	Near    float32
	Far     float32
}

// DefaultCamera looks down -Z at the particle canvas from far enough away to
// see the whole grid.
func DefaultCamera() Camera {
	return Camera{
		Position: V3(0, 0, 60),
		Target:   V3(0, 0, 0),
		Up:       V3(0, 1, 0),
		FOVYRad:  1.0,
		Near:     0.1,
		Far:      500,
	}
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return Mat4LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect float32) Mat4 {
	fov := c.FOVYRad
	if fov == 0 {
		fov = 1.0
	}
	return Mat4Perspective(fov, aspect, c.Near, c.Far)
}

// ViewProj returns Projection*View for a w x h target.
func (c Camera) ViewProj(w, h int) Mat4 {
	aspect := float32(1)
	if h != 0 {
		aspect = float32(w) / float32(h)
	}
	return Mat4Mul(c.Projection(aspect), c.View())
}

// OrbitController orbits a camera around its target.
//
// It does not depend on any input system; the render loop advances it with
// the clock period.
type OrbitController struct {
	Target Vec3
	Yaw    float32
	Pitch  float32
	Radius float32

	// Speed is the yaw rate in radians per second used by Advance.
	Speed float32
}

// NewOrbit places an orbit so that Apply reproduces cam's position.
func NewOrbit(cam Camera, speed float32) *OrbitController {
	d := cam.Position.Sub(cam.Target)
	return &OrbitController{Target: cam.Target, Radius: Len(d), Speed: speed}
}

func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.Radius
	if r == 0 {
		r = 3
	}

	m := Mat4Mul(Mat4RotateY(c.Yaw), Mat4RotateX(c.Pitch))
	p := Mat4MulV4(m, Vec4{X: 0, Y: 0, Z: r, W: 1})

	cam.Position = c.Target.Add(V3(p.X, p.Y, p.Z))
	cam.Target = c.Target
	if cam.Up == (Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}

// Advance rotates by Speed*dt.
func (c *OrbitController) Advance(dt float32) {
	c.Rotate(c.Speed*dt, 0)
}

func (c *OrbitController) Rotate(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
}

