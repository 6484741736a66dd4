package utils

import (
	"fmt"
	"strconv"
)

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse '%s' as int64: %w", s, err)
	}
	return num, nil
}

// OptionalInt64 parses s when it is non-empty. An empty string yields nil.
func OptionalInt64(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	num, err := StrToInt64(s)
	if err != nil {
		return nil, err
	}
	return &num, nil
}
