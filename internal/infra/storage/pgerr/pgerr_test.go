package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pq.Error{Code: CodeUniqueViolation})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: CodeForeignKeyViolation}))
	assert.True(t, IsCheckViolation(&pq.Error{Code: CodeCheckViolation}))
	assert.Equal(t, "", Code(errors.New("plain")))
}
