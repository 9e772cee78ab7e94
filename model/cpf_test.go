/*
Copyright 2025 MilhasPix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildCPF appends the two check digits to nine leading digits, producing a
// CPF that is valid by construction.
func buildCPF(leading string) string {
	digits := leading
	for pos := 9; pos <= 10; pos++ {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += int(digits[i]-'0') * (pos + 1 - i)
		}
		remainder := sum % 11
		check := 0
		if remainder >= 2 {
			check = 11 - remainder
		}
		digits += fmt.Sprintf("%d", check)
	}
	return digits
}

func TestIsValidCPF(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"known valid, formatted", "123.456.789-09", true},
		{"known valid, raw", "12345678909", true},
		{"too short", "1234567890", false},
		{"too long", "123456789012", false},
		{"empty", "", false},
		{"letters only", "abc.def.ghi-jk", false},
		{"first check digit wrong", "12345678919", false},
		{"second check digit wrong", "12345678908", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCPF(tt.input))
		})
	}
}

func TestIsValidCPFRejectsRepeatedDigits(t *testing.T) {
	// All eleven single-digit repetitions pass the checksum but are invalid.
	for d := 0; d <= 9; d++ {
		cpf := strings.Repeat(fmt.Sprintf("%d", d), 11)
		assert.False(t, IsValidCPF(cpf), "expected %s to be invalid", cpf)
	}
	assert.False(t, IsValidCPF("111.111.111-11"))
}

func TestIsValidCPFGeneratedChecksums(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		leading := ""
		for j := 0; j < 9; j++ {
			leading += fmt.Sprintf("%d", rng.Intn(10))
		}
		cpf := buildCPF(leading)
		if strings.Count(cpf, string(cpf[0])) == 11 {
			continue // repeated-digit sequences never validate
		}
		assert.True(t, IsValidCPF(cpf), "expected generated %s to be valid", cpf)

		// Mutating either check digit must break it.
		for pos := 9; pos <= 10; pos++ {
			mutated := []byte(cpf)
			mutated[pos] = '0' + byte((int(cpf[pos]-'0')+1)%10)
			assert.False(t, IsValidCPF(string(mutated)), "expected mutated %s to be invalid", mutated)
		}
	}
}

func TestFormatCPFProgressive(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "123"},
		{"1234", "123.4"},
		{"123456", "123.456"},
		{"1234567", "123.456.7"},
		{"123456789", "123.456.789"},
		{"1234567890", "123.456.789-0"},
		{"12345678909", "123.456.789-09"},
		{"123456789091", "123.456.789-09"}, // digits past the 11th dropped
		{"123.456.789-09", "123.456.789-09"},
		{"abc123def456", "123.456"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCPF(tt.input))
		})
	}
}

func TestFormatCPFIdempotent(t *testing.T) {
	inputs := []string{"", "1", "1234", "1234567", "1234567890", "12345678909", "999999999999999"}
	for _, in := range inputs {
		once := FormatCPF(in)
		assert.Equal(t, once, FormatCPF(once), "format not idempotent for %q", in)
	}
}

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "12345678909", NormalizeCPF("123.456.789-09"))
	assert.Equal(t, "", NormalizeCPF("no digits here"))
	assert.Equal(t, "42", NormalizeCPF(" 4-2 "))
}
