package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	notFound := errors.Wrap(NewNotFoundError("student", 7), "getting student")
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsValidation(notFound))
	assert.Equal(t, "getting student: student 7 not found", notFound.Error())

	integrity := NewDataIntegrityError("reschedule", 3, 7)
	assert.True(t, IsDataIntegrity(integrity))
	assert.Equal(t, "reschedule 3 references missing student 7", integrity.Error())
	assert.Equal(t, "attendance references missing student 7", NewDataIntegrityError("attendance", 0, 7).Error())

	vErr := NewValidationError(nil, FieldError{Field: "name", Error: "this field cannot be blank"})
	assert.True(t, IsValidation(vErr))
	assert.Equal(t, "name: this field cannot be blank", vErr.Error())

	saveErr := &SaveError{Failed: map[string]error{
		"students":   errors.New("disk full"),
		"attendance": errors.New("read-only"),
	}}
	assert.True(t, IsSaveWarning(errors.Wrap(saveErr, "adding student")))
	assert.Equal(t, "unsaved changes: attendance: read-only; students: disk full", saveErr.Error())
}
