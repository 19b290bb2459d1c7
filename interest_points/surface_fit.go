package interestpoints

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// rankTolerance is the singular value cutoff, relative to the largest, for minimum-norm solves.
const rankTolerance = 1e-12

// Frame is an orthonormal local basis stored as columns; Frame[2] is the surface normal.
type Frame [3]r3.Vector

// Center translates points so their centroid sits at the origin.
func Center(points []r3.Vector) (centered []r3.Vector, centroid r3.Vector) {
	if len(points) == 0 {
		return nil, r3.Vector{}
	}
	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float64(len(points)))

	centered = make([]r3.Vector, len(points))
	for i, p := range points {
		centered[i] = p.Sub(centroid)
	}
	return centered, centroid
}

// RotateToFitPlane rotates centered points into the PCA frame of the neighbourhood so the
// best fitting plane becomes z = 0. The frame is oriented so the analysed point has a
// non-negative height.
func RotateToFitPlane(centered []r3.Vector, analyzed int) ([]r3.Vector, Frame) {
	p := mat.NewDense(len(centered), 3, nil)
	for i, c := range centered {
		p.Set(i, 0, c.X)
		p.Set(i, 1, c.Y)
		p.Set(i, 2, c.Z)
	}

	// Covariance Pᵀ·P.
	cov := mat.NewSymDense(3, nil)
	cov.SymOuterK(1, p.T())

	var eigen mat.EigenSym
	frame := Frame{{X: 1}, {Y: 1}, {Z: 1}}
	if eigen.Factorize(cov, true) {
		var vecs mat.Dense
		eigen.VectorsTo(&vecs)
		// Eigenvalues are ascending; the frame takes them descending so the
		// smallest-variance direction becomes the normal.
		for col := 0; col < 3; col++ {
			src := 2 - col
			frame[col] = r3.Vector{X: vecs.At(0, src), Y: vecs.At(1, src), Z: vecs.At(2, src)}
		}
	}

	if centered[analyzed].Dot(frame[2]) < 0 {
		frame = Frame{frame[1].Mul(-1), frame[0].Mul(-1), frame[2].Mul(-1)}
	}

	rotated := make([]r3.Vector, len(centered))
	for i, c := range centered {
		rotated[i] = r3.Vector{X: c.Dot(frame[0]), Y: c.Dot(frame[1]), Z: c.Dot(frame[2])}
	}
	return rotated, frame
}

// FitQuadraticSurface fits z = p1·x² + p2·xy + p3·y² + p4·x + p5·y + p6 to rotated points
// with the analysed point moved to the in-plane origin. Rank deficient neighbourhoods get
// the minimum-norm solution.
func FitQuadraticSurface(rotated []r3.Vector, analyzed int) SurfaceFit {
	n := len(rotated)
	if n == 0 {
		return SurfaceFit{}
	}
	ox, oy := rotated[analyzed].X, rotated[analyzed].Y

	a := mat.NewDense(n, 6, nil)
	b := mat.NewVecDense(n, nil)
	for i, pt := range rotated {
		x := pt.X - ox
		y := pt.Y - oy
		a.SetRow(i, []float64{x * x, x * y, y * y, x, y, 1})
		b.SetVec(i, pt.Z)
	}

	x := solveLeastSquares(a, b)

	var fit SurfaceFit
	for i := range fit.Coefficients {
		fit.Coefficients[i] = x.AtVec(i)
	}
	fit.Coefficients[0] *= 2
	fit.Coefficients[2] *= 2
	return fit
}

// solveLeastSquares solves a·x = b in the least-squares sense. QR handles the
// well-posed case; underdetermined or ill-conditioned systems fall back to SVD.
func solveLeastSquares(a *mat.Dense, b *mat.VecDense) *mat.VecDense {
	rows, cols := a.Dims()
	if rows >= cols {
		var qr mat.QR
		qr.Factorize(a)
		var x mat.VecDense
		if err := qr.SolveVecTo(&x, false, b); err == nil {
			return &x
		}
	}

	x := mat.NewVecDense(cols, nil)
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return x
	}
	rank := svd.Rank(rankTolerance)
	if rank == 0 {
		return x
	}
	svd.SolveVecTo(x, b, rank)
	return x
}

// FitNeighbourhood runs centering, plane alignment and quadratic fitting on a neighbourhood.
func FitNeighbourhood(nb Neighborhood) (SurfaceFit, Frame) {
	centered, _ := Center(nb.Points)
	rotated, frame := RotateToFitPlane(centered, nb.Center)
	return FitQuadraticSurface(rotated, nb.Center), frame
}
