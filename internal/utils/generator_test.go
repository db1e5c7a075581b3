package utils

import (
	"strings"
	"sync"
	"testing"
)

func TestGenerateShortCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateShortCode()

		if len(code) != ShortCodeLength {
			t.Fatalf("GenerateShortCode() length = %d, want %d", len(code), ShortCodeLength)
		}

		for _, char := range code {
			if !strings.ContainsRune(alphabet, char) {
				t.Errorf("GenerateShortCode() contains invalid character: %c", char)
			}
		}
	}
}

func TestAlphabet(t *testing.T) {
	if len(alphabet) != 62 {
		t.Fatalf("alphabet length = %d, want 62", len(alphabet))
	}

	seen := make(map[rune]bool)
	for _, r := range alphabet {
		if seen[r] {
			t.Errorf("alphabet contains duplicate symbol %c", r)
		}
		seen[r] = true
	}
}

func TestGenerateShortCodeUniqueness(t *testing.T) {
	generated := make(map[string]bool)
	iterations := 10000

	for i := 0; i < iterations; i++ {
		code := GenerateShortCode()

		if generated[code] {
			t.Errorf("GenerateShortCode() generated duplicate: %s", code)
		}
		generated[code] = true
	}
}

func TestGenerateShortCodeConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	codes := make(chan string, 400)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				codes <- GenerateShortCode()
			}
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		if !IsValidShortCode(code) {
			t.Errorf("GenerateShortCode() produced invalid code %q", code)
		}
	}
}

func TestIsValidShortCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"generated shape", "aZ09bY8", true},
		{"too short", "abc123", false},
		{"too long", "abc12345", false},
		{"empty", "", false},
		{"dash", "abc-123", false},
		{"unicode", "abcdeé1", false},
		{"space", "abc 123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidShortCode(tt.code); got != tt.want {
				t.Errorf("IsValidShortCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
