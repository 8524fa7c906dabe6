package fieldcheck_test

import (
	"strings"
	"testing"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/fieldcheck"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	got, err := fieldcheck.Text("name", "  Jane Doe  ", 100)
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", got)

	_, err = fieldcheck.Text("name", "   ", 100)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	assert.EqualError(t, err, "name is required")

	_, err = fieldcheck.Text("empId", strings.Repeat("x", 11), 10)
	assert.EqualError(t, err, "empId must be at most 10 characters")
}

func TestCode(t *testing.T) {
	got, err := fieldcheck.Code("code", " annual ", 15)
	assert.NoError(t, err)
	assert.Equal(t, "ANNUAL", got)
}

func TestEmail(t *testing.T) {
	got, err := fieldcheck.Email("email", "  Jane.Doe@Example.COM ", 100)
	assert.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", got)

	_, err = fieldcheck.Email("email", "not-an-email", 100)
	assert.EqualError(t, err, "email must be a valid email address")

	_, err = fieldcheck.Email("email", strings.Repeat("a", 95)+"@x.com", 100)
	assert.EqualError(t, err, "email must be at most 100 characters")
}

func TestIntegers(t *testing.T) {
	_, err := fieldcheck.NonNegative("leaveBalance", -1)
	assert.Error(t, err)
	v, err := fieldcheck.NonNegative("leaveBalance", 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, v)

	_, err = fieldcheck.Positive("maxDays", 0)
	assert.EqualError(t, err, "maxDays must be a positive integer")
}
