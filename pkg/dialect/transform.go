package dialect

import (
	"fmt"

	"github.com/twinfer/setupsheet-plugin/internal/exprtransform"
)

// Transform is one compiled paired numeric transform. Decode maps a raw
// value to its canonical reading, Encode maps it back; the pair must satisfy
// Encode(Decode(x)) == x for finite x within the field's natural precision.
type Transform struct {
	Decode func(float64) (float64, error)
	Encode func(float64) (float64, error)
}

// Scale builds a unit-rescale transform: decode multiplies by factor,
// encode divides by it.
func Scale(factor float64) Transform {
	return Transform{
		Decode: func(x float64) (float64, error) { return x * factor, nil },
		Encode: func(x float64) (float64, error) { return x / factor, nil },
	}
}

// Negate builds a sign-convention flip: both directions negate.
func Negate() Transform {
	neg := func(x float64) (float64, error) { return -x, nil }
	return Transform{Decode: neg, Encode: neg}
}

// compileTransform turns a TransformSpec into an executable Transform,
// compiling expression pairs through the shared pool.
func compileTransform(spec TransformSpec, pool *exprtransform.Pool) (Transform, error) {
	switch spec.Kind {
	case TransformScale:
		if spec.Factor == 0 {
			return Transform{}, fmt.Errorf("scale transform requires a non-zero factor")
		}
		return Scale(spec.Factor), nil
	case TransformNegate:
		return Negate(), nil
	case TransformExpr:
		if spec.Decode == "" || spec.Encode == "" {
			return Transform{}, fmt.Errorf("expr transform requires both decode and encode expressions")
		}
		dec, err := pool.Func(spec.Decode)
		if err != nil {
			return Transform{}, err
		}
		enc, err := pool.Func(spec.Encode)
		if err != nil {
			return Transform{}, err
		}
		return Transform{Decode: dec, Encode: enc}, nil
	default:
		return Transform{}, fmt.Errorf("unknown transform kind %q", spec.Kind)
	}
}
