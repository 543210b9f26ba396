package internal

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

// Receipt numbers are the external order identifier: RC + last four digits of
// a millisecond timestamp + three random uppercase letters. The format is a
// lookup contract and must not change.
var receiptNumberPattern = regexp.MustCompile(`^RC\d{4}[A-Z]{3}$`)

const receiptLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func GenerateReceiptNumber() string {
	digits := time.Now().UnixMilli() % 10000
	letters := make([]byte, 3)
	for i := range letters {
		letters[i] = receiptLetters[rand.Intn(len(receiptLetters))]
	}
	return fmt.Sprintf("RC%04d%s", digits, letters)
}

func ValidReceiptNumber(number string) bool {
	return receiptNumberPattern.MatchString(number)
}
