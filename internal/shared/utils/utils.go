package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SearchTokens splits a free-text query on whitespace.
func SearchTokens(query string) []string {
	return strings.Fields(query)
}

// NormalizeSearchQuery lower-cases query and joins its tokens with "+".
// "  Dune  Messiah " → "dune+messiah"
func NormalizeSearchQuery(query string) string {
	lower := cases.Lower(language.Und).String(query)
	return strings.Join(strings.Fields(lower), "+")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern builds an ILIKE pattern matching s anywhere.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// DecimalToFloat converts a SQL numeric to float64.
func DecimalToFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// ParsePagination reads ?page and ?per_page, clamping to [1, maxPerPage].
func ParsePagination(c *gin.Context, defaultPerPage, maxPerPage int) (page, perPage int) {
	page = parsePositive(c.Query("page"), 1)
	perPage = parsePositive(c.Query("per_page"), defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD value. nil or blank yields nil.
func ParseDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", *value)
	}
	return &t, nil
}

// FormatDate renders an optional date as YYYY-MM-DD.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// RequiredUUID is an ozzo-validation rule rejecting uuid.Nil.
func RequiredUUID(value interface{}) error {
	switch v := value.(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return errors.New("cannot be blank")
		}
	case *uuid.UUID:
		if v != nil && *v == uuid.Nil {
			return errors.New("cannot be blank")
		}
	}
	return nil
}
