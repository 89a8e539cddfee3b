package config

// Registry is the ordered, read-only set of axes a chart is built
// from. Index position is load-bearing: angles, tick grids and sample
// values are all aligned by it.
type Registry struct {
	axes []AxisSpec
}

// NewRegistry copies axes into a Registry, preserving order. Tick
// counts left at zero take defaultTicks.
func NewRegistry(axes []AxisSpec, defaultTicks int) Registry {
	cp := make([]AxisSpec, len(axes))
	copy(cp, axes)
	for i := range cp {
		if cp[i].TickCount <= 0 {
			cp[i].TickCount = defaultTicks
		}
	}
	return Registry{axes: cp}
}

// Registry returns the registry for c's axes.
func (c *KiviatConfig) Registry() Registry {
	return NewRegistry(c.Axes, c.Chart.TickCount)
}

// Len returns the number of axes.
func (r Registry) Len() int { return len(r.axes) }

// At returns axis i.
func (r Registry) At(i int) AxisSpec { return r.axes[i] }

// Axes returns a copy of all axes in order.
func (r Registry) Axes() []AxisSpec {
	cp := make([]AxisSpec, len(r.axes))
	copy(cp, r.axes)
	return cp
}

// Titles returns the axis titles in order.
func (r Registry) Titles() []string {
	titles := make([]string, len(r.axes))
	for i, a := range r.axes {
		titles[i] = a.Title
	}
	return titles
}
