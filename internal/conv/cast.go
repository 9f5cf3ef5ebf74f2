package conv

import (
	"fmt"
	"math"
)

// MulInt multiplies two non-negative ints, failing on overflow.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("integer overflow: %d * %d (negative operand)", a, b)
	}
	if b != 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d exceeds int range", a, b)
	}
	return a * b, nil
}

// AddInt adds two non-negative ints, failing on overflow.
func AddInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("integer overflow: %d + %d (negative operand)", a, b)
	}
	if a > math.MaxInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d exceeds int range", a, b)
	}
	return a + b, nil
}
