package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("restore: %w", New(CodeSessionExpiry, "token expired"))

	assert.Equal(t, CodeSessionExpiry, CodeOf(err))
	assert.Equal(t, "", CodeOf(fmt.Errorf("plain")))
}

func TestNewRecordsCaller(t *testing.T) {
	err := NewWithDetails(CodeValidation, "bad form", "title required")

	assert.Equal(t, "VALIDATION_FAILED: bad form", err.Error())
	assert.NotZero(t, err.Line)
	assert.Contains(t, err.File, "errors_test.go")
}
