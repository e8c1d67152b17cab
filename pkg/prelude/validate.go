package prelude

import "cmp"

// Range accepts values in [lo, hi].
func Range[T cmp.Ordered](lo, hi T) func(T) bool {
	return func(v T) bool { return v >= lo && v <= hi }
}

// OneOf accepts only the listed values, the way an enum field does.
func OneOf[T comparable](values ...T) func(T) bool {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(v T) bool {
		_, ok := set[v]
		return ok
	}
}
