package text

import (
	"strconv"
	"strings"
)

// FormatUint renders v in base with the base's prefix (0x, 0b).
func FormatUint(v uint64, base int, grouping bool) string {
	digits := strconv.FormatUint(v, base)
	switch base {
	case 16:
		if grouping {
			digits = group(digits, 4)
		}
		return "0x" + digits
	case 2:
		if grouping {
			digits = group(digits, 4)
		}
		return "0b" + digits
	default:
		if grouping {
			digits = group(digits, 3)
		}
		return digits
	}
}

// FormatInt renders v like FormatUint with a leading '-' for negatives.
func FormatInt(v int64, base int, grouping bool) string {
	if v >= 0 {
		return FormatUint(uint64(v), base, grouping)
	}
	return "-" + FormatUint(uint64(-(v+1))+1, base, grouping)
}

func group(digits string, n int) string {
	if len(digits) <= n {
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % n
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += n {
		if sb.Len() > 0 {
			sb.WriteByte('_')
		}
		sb.WriteString(digits[i : i+n])
	}
	return sb.String()
}

// DecodeUint parses a decimal, 0x-hex or 0b-binary literal. Underscores
// may separate digits.
func DecodeUint(s string) (uint64, bool) {
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	if s == "" || s[0] == '_' || s[len(s)-1] == '_' || strings.Contains(s, "__") {
		return 0, false
	}
	s = strings.ReplaceAll(s, "_", "")
	for i := 0; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DecodeInt parses an optionally negative integer literal.
func DecodeInt(s string) (int64, bool) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	mag, ok := DecodeUint(s)
	if !ok {
		return 0, false
	}
	if neg {
		if mag > 1<<63 {
			return 0, false
		}
		return -int64(mag-1) - 1, true
	}
	if mag > 1<<63-1 {
		return 0, false
	}
	return int64(mag), true
}
