package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		code     string
		category Category
		severity Severity
	}{
		{ErrCodeSchemaInvalid, CategoryConfig, SeverityFatal},
		{ErrCodeUnknownType, CategoryConfig, SeverityError},
		{ErrCodeIndexOpen, CategoryIO, SeverityError},
		{ErrCodeIndexCorrupt, CategoryIO, SeverityFatal},
		{ErrCodeFlexibleArity, CategoryValidation, SeverityError},
		{ErrCodeInternal, CategoryInternal, SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestError_Format(t *testing.T) {
	err := New(ErrCodeInvalidQuery, "bad query", nil)
	assert.Equal(t, "[ERR_403_INVALID_QUERY] bad query", err.Error())
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(ErrCodeIndexOpen, cause)

	require.NotNil(t, err)
	assert.Equal(t, "underlying", err.Message)
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeIndexOpen, nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeFlexibleArity, "first", nil)
	b := New(ErrCodeFlexibleArity, "second", nil)
	c := New(ErrCodeInvalidInput, "other", nil)

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWithDetail(t *testing.T) {
	err := ArityError("mismatch").
		WithDetail("fields", "2").
		WithDetail("operators", "1")

	assert.Equal(t, "2", err.Details["fields"])
	assert.Equal(t, "1", err.Details["operators"])
	assert.Equal(t, ErrCodeFlexibleArity, err.Code)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeSchemaInvalid, "x", nil)))
	assert.False(t, IsFatal(New(ErrCodeInvalidInput, "x", nil)))
	assert.False(t, IsFatal(fmt.Errorf("plain")))
	assert.False(t, IsFatal(nil))
}

func TestGetCodeAndCategory(t *testing.T) {
	err := New(ErrCodeSearchFailed, "x", nil)
	assert.Equal(t, ErrCodeSearchFailed, GetCode(err))
	assert.Equal(t, CategoryInternal, GetCategory(err))

	assert.Equal(t, "", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, Category(""), GetCategory(fmt.Errorf("plain")))
}
