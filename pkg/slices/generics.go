package slices

import (
	originSlices "slices"

	"golang.org/x/exp/constraints"
)

func GenericsFilterSliceEmptyValues[T comparable](list []T) []T {
	result := make([]T, 0)
	var emptyValue T
	for _, v := range list {
		// if T value is empty (ex: "", 0, false)
		if v == emptyValue {
			continue
		}
		result = append(result, v)
	}
	return result
}

func GenericsUniqueSliceValues[T comparable](list []T) []T {
	result := make([]T, 0)
	seen := make(map[T]struct{})
	for _, v := range list {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// GenericsStandardizeSlice drops empty and duplicate values and sorts the rest
func GenericsStandardizeSlice[T constraints.Ordered](list []T) []T {
	if list == nil {
		return make([]T, 0)
	}
	result := GenericsFilterSliceEmptyValues(list)
	result = GenericsUniqueSliceValues(result)
	originSlices.Sort(result)
	return result
}

// GenericsMapKeys returns the keys of m in sorted order
func GenericsMapKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	originSlices.Sort(keys)
	return keys
}

func GenericsSliceContainsOne[T constraints.Ordered](list []T, in ...T) bool {
	if len(list) == 0 || len(in) == 0 {
		return false
	}
	for _, v := range in {
		if originSlices.Contains(list, v) {
			return true
		}
	}
	return false
}
