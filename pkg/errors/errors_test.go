package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndError(t *testing.T) {
	err := New(ErrCodeSourceSchema, "missing column")
	assert.Equal(t, ErrCodeSourceSchema, err.Code)
	assert.Equal(t, "[SRC_002] missing column", err.Error())
	assert.NotEmpty(t, err.Stack)

	withDetail := err.WithDetail(`column "kecamatan"`)
	assert.Equal(t, `[SRC_002] missing column: column "kecamatan"`, withDetail.Error())
	// Original is untouched.
	assert.Empty(t, err.Detail)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeSourceParse, "ignored"))

	cause := fmt.Errorf("unexpected EOF")
	err := Wrap(cause, ErrCodeSourceParse, "failed to parse boundary catalog")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeSourceParse, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrapPreservesCodeForUnknown(t *testing.T) {
	inner := New(ErrCodeSourceSchema, "missing column")
	outer := Wrap(inner, CodeUnknown, "loading records")
	assert.Equal(t, ErrCodeSourceSchema, outer.Code)
}

func TestIsCodeTraversesChain(t *testing.T) {
	inner := New(ErrCodeSourceParse, "bad json")
	wrapped := fmt.Errorf("loader: %w", inner)
	outer := Wrap(wrapped, ErrCodeInternal, "pipeline failed")

	assert.True(t, IsCode(outer, ErrCodeSourceParse))
	assert.True(t, IsCode(outer, ErrCodeInternal))
	assert.False(t, IsCode(outer, ErrCodeDatabaseError))
}

func TestIsLoadError(t *testing.T) {
	assert.True(t, IsLoadError(New(ErrCodeSourceParse, "x")))
	assert.True(t, IsLoadError(New(ErrCodeSourceSchema, "x")))
	assert.True(t, IsLoadError(New(ErrCodeSourceUnavailable, "x")))
	assert.False(t, IsLoadError(New(ErrCodeInternal, "x")))
	assert.False(t, IsLoadError(errors.New("plain")))
	assert.False(t, IsLoadError(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
	assert.Equal(t, ErrCodeCatalogEmpty, GetCode(New(ErrCodeCatalogEmpty, "no features")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusForCode(ErrCodeSourceSchema))
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodeRegionNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsServerError(ErrCodeAggregationFailed))
}
