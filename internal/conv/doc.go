// Package conv provides overflow-checked integer arithmetic.
//
// Region sizing multiplies caller-supplied item counts by element sizes
// and rounds the result up to the mapping granularity; both steps can
// overflow int on adversarial input and must fail loudly instead of
// wrapping.
//
// For arithmetic that is provably safe by domain constraints (e.g. loop
// indices, bounded counters), use plain operators instead to avoid
// overhead.
package conv
