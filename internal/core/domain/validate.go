package domain

// ValidateEnum returns the member of allowed equal to raw, or current when raw
// is not a known code. It never fails: persisted codes written by a newer
// build simply leave the field as it was.
func ValidateEnum[T ~int32](raw int32, allowed []T, current T) T {
	for _, v := range allowed {
		if int32(v) == raw {
			return v
		}
	}
	return current
}

// IsAllowed reports whether v is a member of allowed.
func IsAllowed[T ~int32](v T, allowed []T) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
