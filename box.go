package kdtree

// Box is an axis-aligned bounding box. Min and max are inclusive: every
// point of the region a Box describes satisfies MinX <= x <= MaxX and
// MinY <= y <= MaxY.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// spread returns the extent of the box along the given axis.
func (b Box) spread(axis Axis) float64 {
	if axis == AxisX {
		return b.MaxX - b.MinX
	}
	return b.MaxY - b.MinY
}

// widestAxis returns the axis with the larger extent, preferring x on ties.
func (b Box) widestAxis() Axis {
	if b.spread(AxisY) > b.spread(AxisX) {
		return AxisY
	}
	return AxisX
}

// splitLo returns the sub-box on the low side of the splitting line
// axis = v. The line itself belongs to both halves.
func (b Box) splitLo(axis Axis, v float64) Box {
	if axis == AxisX {
		b.MaxX = v
	} else {
		b.MaxY = v
	}
	return b
}

// splitHi returns the sub-box on the high side of the splitting line axis = v.
func (b Box) splitHi(axis Axis, v float64) Box {
	if axis == AxisX {
		b.MinX = v
	} else {
		b.MinY = v
	}
	return b
}

// contains reports whether the point (x, y) lies inside the box.
func (b Box) contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// containsBall reports whether the disk of radius r centered at (x, y) lies
// strictly inside the box. This is the termination certificate for
// bottom-up searches: all points within r of (x, y) then sit strictly
// inside the box, so they belong to this subtree and ascent may stop.
// Strict comparisons keep the certificate valid for inclusive-radius
// queries even when a point at exactly distance r lies on a splitting line.
func (b Box) containsBall(x, y, r float64) bool {
	return x-r > b.MinX && x+r < b.MaxX && y-r > b.MinY && y+r < b.MaxY
}
