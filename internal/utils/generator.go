package utils

import (
	"crypto/rand"
)

const (
	ShortCodeLength = 7
	alphabet        = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// байты >= maxByte отбрасываются, иначе b%62 смещает распределение
	maxByte = 256 - 256%len(alphabet)
)

// GenerateShortCode возвращает случайный код из ShortCodeLength символов алфавита.
// crypto/rand.Read не возвращает ошибок начиная с Go 1.24.
func GenerateShortCode() string {
	code := make([]byte, 0, ShortCodeLength)
	buf := make([]byte, ShortCodeLength*2)

	for len(code) < ShortCodeLength {
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == ShortCodeLength {
				break
			}
		}
	}

	return string(code)
}

// IsValidShortCode проверяет, мог ли код быть выдан генератором
func IsValidShortCode(code string) bool {
	if len(code) != ShortCodeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}

	return true
}
