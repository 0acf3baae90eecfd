package searchdata

import (
	"strconv"
	"strings"
)

// EncodeKey converts typed text into the key alphabet the generator uses:
// lowercase, with every byte outside [a-z0-9] written as '_' plus two hex
// digits. "Air_bus" becomes "air_5fbus".
func EncodeKey(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isKeyByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('_')
		b.WriteString(strconv.FormatUint(uint64(c)>>4, 16))
		b.WriteString(strconv.FormatUint(uint64(c)&0xf, 16))
	}
	return b.String()
}

// DecodeKey reverses EncodeKey. Malformed escapes are copied through.
func DecodeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '_' && i+2 < len(key) {
			if v, err := strconv.ParseUint(key[i+1:i+3], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		b.WriteByte(key[i])
	}
	return b.String()
}

// NormalizePrefix maps user input onto the key alphabet. Input that is
// already made of key bytes and complete escapes is only lowercased, so
// both "Air_bus" and "air_5fbus" reach the same keys. A '_' that does not
// start a complete escape is taken literally: "airplane_" becomes
// "airplane_5f".
func NormalizePrefix(prefix string) string {
	lower := strings.ToLower(prefix)
	if isEncoded(lower) {
		return lower
	}
	return EncodeKey(lower)
}

func isKeyByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// isEncoded reports whether s only holds key bytes and complete '_' escapes.
func isEncoded(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isKeyByte(c) {
			continue
		}
		if c != '_' || i+2 >= len(s) || !isHexByte(s[i+1]) || !isHexByte(s[i+2]) {
			return false
		}
		i += 2
	}
	return true
}
