// Package validate implements the field-level rules a member record must
// satisfy before it may be written: CPF check digits, Brazilian mobile phone
// shape, and birth-date range.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pauloqxm/adatualiza/pkg/normalize"
)

// MinBirthDate is the oldest birth date the registry accepts.
var MinBirthDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// minAge is the youngest member the registry accepts, expressed as a lower
// bound on age: the birth date must be at least this far in the past.
const minAge = 365 * 24 * time.Hour

// Errors accumulates every violated rule so one resubmission can fix all of
// them. It is itself an error.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

// Add appends err's message when err is non-nil.
func (e *Errors) Add(err error) {
	if err != nil {
		*e = append(*e, err.Error())
	}
}

// Addf appends a formatted rule violation.
func (e *Errors) Addf(format string, args ...any) {
	*e = append(*e, fmt.Sprintf(format, args...))
}

// Empty reports whether no rule was violated.
func (e Errors) Empty() bool { return len(e) == 0 }

// CPF validates a Brazilian CPF: exactly 11 digits, not a single repeated
// digit, and both modulo-11 check digits correct.
func CPF(raw string) error {
	digits := normalize.OnlyDigits(raw)

	if len(digits) != 11 {
		return fmt.Errorf("CPF deve ter 11 dígitos")
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return fmt.Errorf("CPF com dígitos repetidos inválido")
	}

	base := digits[:9]
	d1 := cpfCheckDigit(base, 10)
	d2 := cpfCheckDigit(base+d1, 11)

	if digits != base+d1+d2 {
		return fmt.Errorf("CPF inválido")
	}
	return nil
}

// cpfCheckDigit weights base with strictly decreasing integers starting at
// firstWeight down to 2, sums the products, and folds the remainder.
func cpfCheckDigit(base string, firstWeight int) string {
	sum := 0
	for i, r := range base {
		sum += int(r-'0') * (firstWeight - i)
	}
	remainder := sum % 11
	if remainder < 2 {
		return "0"
	}
	return strconv.Itoa(11 - remainder)
}

// Phone validates a Brazilian mobile number: 11 digits, area code in
// [11, 99], and the subscriber number starting with 9.
func Phone(raw string) error {
	digits := normalize.OnlyDigits(raw)

	if len(digits) != 11 {
		return fmt.Errorf("telefone deve ter 11 dígitos (DDD + número)")
	}

	ddd, err := strconv.Atoi(digits[:2])
	if err != nil || ddd < 11 || ddd > 99 {
		return fmt.Errorf("DDD %s inválido", digits[:2])
	}

	if digits[2] != '9' {
		return fmt.Errorf("número deve ser celular (começar com 9)")
	}
	return nil
}

// BirthDate validates a birth date against the registry's range rules. The
// zero value means the date is absent.
func BirthDate(d time.Time, today time.Time) error {
	if d.IsZero() {
		return fmt.Errorf("data de nascimento obrigatória")
	}
	if d.Before(MinBirthDate) {
		return fmt.Errorf("data muito antiga")
	}
	if d.After(today) {
		return fmt.Errorf("data no futuro não permitida")
	}
	if d.After(today.Add(-minAge)) {
		return fmt.Errorf("idade mínima: 1 ano")
	}
	return nil
}

// FullName requires at least two space-separated tokens.
func FullName(name string) error {
	if len(strings.Fields(strings.TrimSpace(name))) < 2 {
		return fmt.Errorf("nome completo deve ter nome e sobrenome")
	}
	return nil
}
