package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSearchQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dune", "dune"},
		{"  Dune   Messiah ", "dune+messiah"},
		{"\tÉMILE\nZola", "émile+zola"},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSearchQuery(tt.in), tt.in)
	}
}

func TestSearchTokens(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SearchTokens(" a  b "))
	assert.Empty(t, SearchTokens("   "))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, EscapeLike(`c:\dir`))
	assert.Equal(t, `%dune%`, ContainsPattern("dune"))
}

func TestDecimalToFloat(t *testing.T) {
	d, _ := decimal.NewFromString("4.3333333333333333")
	assert.InDelta(t, 13.0/3.0, DecimalToFloat(d), 1e-12)
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, 10},
		{"?page=3&per_page=25", 3, 25},
		{"?page=0&per_page=-1", 1, 10},
		{"?page=x&per_page=1000", 1, 100},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/books"+tt.query, nil)

		page, perPage := ParsePagination(c, 10, 100)
		assert.Equal(t, tt.wantPage, page, tt.query)
		assert.Equal(t, tt.wantPerPage, perPage, tt.query)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(strPtr("1965-08-01"))
	assert.NoError(t, err)
	assert.Equal(t, "1965-08-01", *FormatDate(d))

	d, err = ParseDate(nil)
	assert.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate(strPtr("  "))
	assert.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate(strPtr("01/08/1965"))
	assert.Error(t, err)

	assert.Nil(t, FormatDate(nil))
}

func strPtr(s string) *string { return &s }

func TestRequiredUUID(t *testing.T) {
	id := uuid.New()
	nilID := uuid.Nil

	assert.NoError(t, RequiredUUID(id))
	assert.NoError(t, RequiredUUID(&id))
	assert.NoError(t, RequiredUUID((*uuid.UUID)(nil)))
	assert.Error(t, RequiredUUID(uuid.Nil))
	assert.Error(t, RequiredUUID(&nilID))
}
