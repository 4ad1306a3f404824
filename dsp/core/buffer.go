package core

// EnsureLen returns buf resliced to n elements when its capacity allows and
// a new slice otherwise. The contents are unspecified.
func EnsureLen[T any](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

// Window returns buf[start:start+n], or nil when that span is not fully
// inside buf.
func Window[T any](buf []T, start, n int) []T {
	if start < 0 || n < 0 || start+n > len(buf) {
		return nil
	}
	return buf[start : start+n]
}
