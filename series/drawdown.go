package series

// BuildDrawdown returns the percentage decline of each point from the running
// high-water mark.
//
// Input may be unordered, the output is date ascending. The high-water mark starts at
// the first value and is raised before a point is emitted, so a point at a new peak
// is 0 and every value is ≤ 0. A non-positive high-water mark yields 0.
func BuildDrawdown(balance []Point) []Point {
	points := finite(balance)
	if len(points) == 0 {
		return nil
	}
	res := make([]Point, 0, len(points))
	hwm := points[0].Value
	for _, p := range points {
		hwm = max(hwm, p.Value)
		dd := 0.0
		if hwm > 0 {
			dd = 100 * (p.Value - hwm) / hwm
		}
		res = append(res, Point{Date: p.Date, Value: dd, Synthetic: p.Synthetic})
	}
	return res
}

// BuildAbsoluteDrawdown is like BuildDrawdown but returns the decline in value
// instead of percent.
func BuildAbsoluteDrawdown(balance []Point) []Point {
	points := finite(balance)
	if len(points) == 0 {
		return nil
	}
	res := make([]Point, 0, len(points))
	peak := points[0].Value
	for _, p := range points {
		peak = max(peak, p.Value)
		res = append(res, Point{Date: p.Date, Value: p.Value - peak, Synthetic: p.Synthetic})
	}
	return res
}

// MaxDrawdown returns the deepest point of a drawdown series.
func MaxDrawdown(drawdown []Point) (Point, bool) {
	if len(drawdown) == 0 {
		return Point{}, false
	}
	worst := drawdown[0]
	for _, p := range drawdown[1:] {
		if p.Value < worst.Value {
			worst = p
		}
	}
	return worst, true
}
