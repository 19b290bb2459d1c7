package interestpoints

import "math"

// DifferentialMatrix builds the Harris matrix from the first five fit coefficients.
func DifferentialMatrix(fit SurfaceFit) HarrisMatrix {
	p1, p2, p3, p4, p5 := fit.Coefficients[0], fit.Coefficients[1], fit.Coefficients[2], fit.Coefficients[3], fit.Coefficients[4]
	return HarrisMatrix{
		A: p4*p4 + 2*p1*p1 + 2*p2*p2,
		B: p5*p5 + 2*p2*p2 + 2*p3*p3,
		C: p4*p5 + 2*p1*p2 + 2*p2*p3,
	}
}

// Det returns the determinant of the matrix.
func (e HarrisMatrix) Det() float64 {
	return e.A*e.B - e.C*e.C
}

// Trace returns the trace of the matrix.
func (e HarrisMatrix) Trace() float64 {
	return e.A + e.B
}

// HarrisResponse returns det(E) - k·trace(E)².
func HarrisResponse(e HarrisMatrix, k float64) float64 {
	tr := e.Trace()
	return e.Det() - k*tr*tr
}

// vertexResponse is HarrisResponse with non-finite values mapped to -Inf, so a
// degenerate vertex still ranks below every well-defined one.
func vertexResponse(fit SurfaceFit, k float64) float64 {
	r := HarrisResponse(DifferentialMatrix(fit), k)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.Inf(-1)
	}
	return r
}
