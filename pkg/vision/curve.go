package vision

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Curve models the path position as a function of image row:
// x = A·y² + B·y + C.
type Curve struct {
	A, B, C float64
}

// At evaluates the curve at row y.
func (c Curve) At(y float64) float64 {
	return (c.A*y+c.B)*y + c.C
}

// Curvature returns |A|, a relative sharpness signal in pixel units.
// It is not a geometric curvature or radius.
func (c Curve) Curvature() float64 {
	return math.Abs(c.A)
}

// FitQuadratic fits x = a·y² + b·y + c to points by least squares with y as
// the independent variable. Regressing on y keeps near-vertical paths
// single-valued.
func FitQuadratic(points []image.Point) (Curve, error) {
	return fitQuadratic(points, DefaultConfig().MaxCondition)
}

func fitQuadratic(points []image.Point, maxCond float64) (Curve, error) {
	n := len(points)
	if n < 3 {
		return Curve{}, fmt.Errorf("%w: %d points", ErrDegenerateFit, n)
	}

	// Rows are centered and scaled before building the normal equations so
	// that y⁴ terms on a 480-row frame do not swamp the constant column.
	minY, maxY := points[0].Y, points[0].Y
	var sumY float64
	for _, p := range points {
		sumY += float64(p.Y)
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	mean := sumY / float64(n)

	var sumSq float64
	middle := false
	for _, p := range points {
		d := float64(p.Y) - mean
		sumSq += d * d
		if p.Y > minY && p.Y < maxY {
			middle = true
		}
	}
	if !middle {
		// Fewer than three distinct rows cannot determine a quadratic.
		return Curve{}, fmt.Errorf("%w: fewer than 3 distinct rows", ErrDegenerateFit)
	}
	scale := math.Sqrt(sumSq / float64(n))

	var s1, s2, s3, s4, x0, x1, x2 float64
	for _, p := range points {
		t := (float64(p.Y) - mean) / scale
		t2 := t * t
		x := float64(p.X)
		s1 += t
		s2 += t2
		s3 += t2 * t
		s4 += t2 * t2
		x0 += x
		x1 += x * t
		x2 += x * t2
	}

	normal := mat.NewSymDense(3, []float64{
		s4, s3, s2,
		s3, s2, s1,
		s2, s1, float64(n),
	})
	rhs := mat.NewVecDense(3, []float64{x2, x1, x0})

	var chol mat.Cholesky
	if ok := chol.Factorize(normal); !ok {
		return Curve{}, fmt.Errorf("%w: singular normal matrix", ErrDegenerateFit)
	}
	if cond := chol.Cond(); cond > maxCond {
		return Curve{}, fmt.Errorf("%w: condition number %.3g", ErrDegenerateFit, cond)
	}

	var params mat.VecDense
	if err := chol.SolveVecTo(&params, rhs); err != nil {
		return Curve{}, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}
	p, q, r := params.AtVec(0), params.AtVec(1), params.AtVec(2)

	// Undo the row scaling: t = (y - mean) / scale.
	s := scale * scale
	curve := Curve{
		A: p / s,
		B: q/scale - 2*p*mean/s,
		C: p*mean*mean/s - q*mean/scale + r,
	}
	if !finite(curve.A) || !finite(curve.B) || !finite(curve.C) {
		return Curve{}, fmt.Errorf("%w: non-finite coefficients", ErrDegenerateFit)
	}

	return curve, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
