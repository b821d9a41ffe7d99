package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type (
	// Kind tells whether a record adds to or subtracts from the balance.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Record is a single income or expense entry. ID is assigned by the store.
	Record struct {
		ID          string
		Description string
		Amount      Money
		Kind        Kind
		Category    string
		Date        Date
	}

	// Draft is a record that has not been stored yet.
	Draft struct {
		Description string
		Amount      Money
		Kind        Kind
		Category    string
		Date        Date
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")

	ErrDescriptionTooLong = errors.New("description too long")
)

const maxDescriptionLen = 200

// ParseKind accepts the canonical names plus the Portuguese labels used in the UI.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "entrada", "receita":
		return KindIncome, nil
	case "expense", "saida", "saída", "despesa":
		return KindExpense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (k Kind) String() string {
	return string(k)
}

// Label is the pt-BR name shown to users.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Entrada"
	case KindExpense:
		return "Saída"
	}
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in UTC.
func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO calendar date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// ISO formats the date as 2006-01-02.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// Display formats the date the Brazilian way (02/01/2006).
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks user input before it reaches a store. Stores do not validate.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Description)) > maxDescriptionLen {
		return fmt.Errorf("%w (max %d characters)", ErrDescriptionTooLong, maxDescriptionLen)
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if !d.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	return d.Date.Validate()
}

// WithID turns the draft into a record carrying the given identifier.
func (d Draft) WithID(id string) Record {
	return Record{
		ID:          id,
		Description: strings.TrimSpace(d.Description),
		Amount:      d.Amount,
		Kind:        d.Kind,
		Category:    strings.TrimSpace(d.Category),
		Date:        d.Date,
	}
}
