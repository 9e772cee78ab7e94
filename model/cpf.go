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

import "strings"

// cpfLength is the number of digits in a Brazilian CPF, including the two
// trailing check digits.
const cpfLength = 11

// NormalizeCPF strips every non-digit character from the input. It accepts
// fully formatted ("123.456.789-09"), partially typed and raw inputs alike.
func NormalizeCPF(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPF reports whether the input is a valid CPF according to the
// official Receita Federal algorithm. Sequences of a single repeated digit
// (e.g. 111.111.111-11) satisfy the checksum but are explicitly rejected.
func IsValidCPF(input string) bool {
	digits := NormalizeCPF(input)
	if len(digits) != cpfLength {
		return false
	}

	repeated := true
	for i := 1; i < cpfLength; i++ {
		if digits[i] != digits[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	if int(digits[9]-'0') != cpfCheckDigit(digits, 9) {
		return false
	}
	return int(digits[10]-'0') == cpfCheckDigit(digits, 10)
}

// cpfCheckDigit computes the expected check digit at the given position (9 or
// 10) from the digits that precede it. The weight starts at position+1 and
// decreases to 2.
func cpfCheckDigit(digits string, position int) int {
	sum := 0
	for i := 0; i < position; i++ {
		sum += int(digits[i]-'0') * (position + 1 - i)
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// FormatCPF applies the standard XXX.XXX.XXX-XX mask progressively, so it can
// run on every keystroke: partial inputs get as much punctuation as their
// length allows, anything past 11 digits is dropped, and already formatted
// input comes out unchanged.
func FormatCPF(input string) string {
	digits := NormalizeCPF(input)
	if len(digits) > cpfLength {
		digits = digits[:cpfLength]
	}

	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return digits[:3] + "." + digits[3:]
	case len(digits) <= 9:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:]
	default:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
	}
}
