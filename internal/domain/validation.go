package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxMemberNameLength   = 255
	MinMemberNameLength   = 1
	MaxDepositFieldLength = 1024
	MaxAmount             = "1000000000000" // 1 trillion
	AmountScale           = 2
	MinYear               = 1900
	MaxYear               = 2999

	DefaultPageSize = 50
	MaxPageSize     = 1000
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	maxAmount  = decimal.RequireFromString(MaxAmount)
)

// ValidateMemberName validates a member's display name
func ValidateMemberName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinMemberNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidMemberName)
	}

	if len(name) > MaxMemberNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidMemberName, MaxMemberNameLength)
	}

	return nil
}

// ValidateAmount validates a deposit or capital amount
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}

	return nil
}

// ParseAmount parses a decimal string and validates it
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateYear validates a capital year
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidYear, year, MinYear, MaxYear)
	}
	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}

// NormalizePage clamps page and limit and returns the matching row offset.
// The offset never exceeds math.MaxInt32, so a page far past the end reads
// as an empty page.
func NormalizePage(page, limit int) (int, int, int) {
	limit, _, _ = ValidatePagination(limit, 0)

	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32/limit + 1; page > maxPage {
		page = maxPage
	}

	return page, limit, (page - 1) * limit
}
