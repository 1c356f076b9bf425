package holdem

import "strconv"

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
