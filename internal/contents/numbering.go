package contents

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// nextCode must run inside the creating transaction. On postgres the
// advisory lock serializes concurrent creators of the same table until commit.
func nextCode(tx *gorm.DB, k kind) (string, error) {
	if tx.Dialector.Name() == "postgres" {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", k.table).Error; err != nil {
			return "", err
		}
	}

	var codes []string
	err := tx.Table(k.table).
		Where(k.codeColumn+" LIKE ?", k.prefix+"%").
		Pluck(k.codeColumn, &codes).Error
	if err != nil {
		return "", err
	}

	last := 0
	for _, code := range codes {
		if n, ok := codeSeq(k.prefix, code); ok && n > last {
			last = n
		}
	}
	return formatCode(k.prefix, last+1), nil
}

// codeSeq parses the numeric part of code. Codes whose suffix is not all
// digits are not part of the sequence.
func codeSeq(prefix, code string) (int, bool) {
	digits, ok := strings.CutPrefix(code, prefix)
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func formatCode(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}
