package volume

// Frame maps world-space points into a descriptor's local space: translate by
// -center, then rotate by the inverse rotation. It is rigid; no scaling is applied.
type Frame struct {
	center  Vec3
	inverse Mat3
	rotated bool
}

// NewFrame builds the local frame for d. An absent or identity rotation skips the
// rotation step entirely.
func NewFrame(d Descriptor) Frame {
	f := Frame{center: d.Center}
	if q, ok := d.Rotation(); ok {
		u := q.Normalize()
		if u != IdentityQuat {
			f.inverse = QuatToMat3(u.Conjugate())
			f.rotated = true
		}
	}
	return f
}

// ToLocal returns p in local coordinates. ToLocal(center) is exactly the origin.
func (f Frame) ToLocal(p Vec3) Vec3 {
	l := p.Sub(f.center)
	if !f.rotated {
		return l
	}
	return f.inverse.MulVec3(l)
}
