package common

func Filter[T any](slice []T, f func(T) bool) []T {
	result := []T{}
	for _, item := range slice {
		if f(item) {
			result = append(result, item)
		}
	}
	return result
}

// Reverse returns a new slice with the elements in reverse order
func Reverse[T any](slice []T) []T {
	result := make([]T, len(slice))
	for i, item := range slice {
		result[len(slice)-1-i] = item
	}
	return result
}
