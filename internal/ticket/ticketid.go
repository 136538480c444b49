package ticket

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTicketID builds a human-readable ticket identifier: a millisecond
// timestamp and a 4-character random suffix, both base36. Uniqueness is
// still enforced by the database index; the suffix just makes collisions
// within one millisecond unlikely.
func NewTicketID() (string, error) {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 36)

	var suffix strings.Builder
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36Alphabet))))
		if err != nil {
			return "", err
		}
		suffix.WriteByte(base36Alphabet[n.Int64()])
	}

	return fmt.Sprintf("TKT-%s-%s", strings.ToUpper(millis), strings.ToUpper(suffix.String())), nil
}
