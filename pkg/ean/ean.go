// Package ean validates EAN-8 and EAN-13 barcode numbers.
package ean

// Valid reports whether code is a well-formed EAN-8 or EAN-13: all digits,
// correct length, and a trailing GS1 check digit. Counting from the digit
// right before the check digit, weights alternate 3,1,3,1,...
func Valid(code string) bool {
	if len(code) != 8 && len(code) != 13 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}

	sum := 0
	weight := 3
	for i := len(code) - 2; i >= 0; i-- {
		sum += int(code[i]-'0') * weight
		weight = 4 - weight
	}
	check := (10 - sum%10) % 10

	return check == int(code[len(code)-1]-'0')
}
