// SPDX-License-Identifier: MPL-2.0

package riotfile

import "iter"

type (
	// Axis is one independent dimension of variation: a name and its ordered
	// candidate values.
	Axis[V any] struct {
		Name   string
		Values []V
	}

	// Pair is a single (axis, value) assignment inside a combination.
	Pair[V any] struct {
		Name  string
		Value V
	}
)

// ExpandSpecs lazily yields every combination of the Cartesian product of axes.
//
//	[(X, [X0, X1]), (Y, [Y0, Y1])] ->
//	  [(X, X0), (Y, Y0)], [(X, X0), (Y, Y1)], [(X, X1), (Y, Y0)], [(X, X1), (Y, Y1)]
//
// Each combination lists its pairs in axis order and the last axis varies
// fastest. An empty axis list yields exactly one empty combination. An axis
// without candidates yields no combinations at all.
func ExpandSpecs[V any](axes []Axis[V]) iter.Seq[[]Pair[V]] {
	return func(yield func([]Pair[V]) bool) {
		for _, axis := range axes {
			if len(axis.Values) == 0 {
				return
			}
		}

		idx := make([]int, len(axes))
		for {
			combo := make([]Pair[V], len(axes))
			for i, axis := range axes {
				combo[i] = Pair[V]{Name: axis.Name, Value: axis.Values[idx[i]]}
			}
			if !yield(combo) {
				return
			}

			// Advance the odometer from the innermost axis.
			i := len(axes) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(axes[i].Values) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

// CountSpecs returns the number of combinations ExpandSpecs yields for axes.
func CountSpecs[V any](axes []Axis[V]) int {
	n := 1
	for _, axis := range axes {
		n *= len(axis.Values)
	}
	return n
}

// mergeAxes returns a fresh axis list holding dst overlaid with src. Axes in
// src replace same-named axes of dst wholesale, keeping dst's position; new
// axes are appended in src order.
func mergeAxes[V any](dst, src []Axis[V]) []Axis[V] {
	out := cloneAxes(dst)
	for _, axis := range src {
		replaced := false
		for i := range out {
			if out[i].Name == axis.Name {
				out[i].Values = append([]V(nil), axis.Values...)
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, Axis[V]{Name: axis.Name, Values: append([]V(nil), axis.Values...)})
		}
	}
	return out
}

func cloneAxes[V any](axes []Axis[V]) []Axis[V] {
	if axes == nil {
		return nil
	}
	out := make([]Axis[V], len(axes))
	for i, axis := range axes {
		out[i] = Axis[V]{Name: axis.Name, Values: append([]V(nil), axis.Values...)}
	}
	return out
}
