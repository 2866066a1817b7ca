package util

// Filter returns the elements of list for which f returns true.
func Filter[A any](list []A, f func(A) bool) []A {
	out := make([]A, 0)
	for _, item := range list {
		if f(item) {
			out = append(out, item)
		}
	}
	return out
}

// Flatten concatenates the inner slices of list, in order, into a new slice.
func Flatten[A any](list [][]A) []A {
	size := 0
	for _, inner := range list {
		size += len(inner)
	}
	out := make([]A, 0, size)
	for _, inner := range list {
		out = append(out, inner...)
	}
	return out
}
