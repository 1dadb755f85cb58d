package common

type IIndex interface {
	~int | ~int8 | ~int16 | ~int32 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// Prev returns the index before i in a ring of n elements.
func Prev[T IIndex](i, n T) T {
	if i > 0 {
		return i - 1
	}
	return n - 1
}

// Next returns the index after i in a ring of n elements.
func Next[T IIndex](i, n T) T {
	if i+1 < n {
		return i + 1
	}
	return 0
}
