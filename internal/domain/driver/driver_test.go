package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := Driver{Name: "Alice", License: "DL-1", Phone: "555-0100", Status: StatusAvailable}
	assert.NoError(t, valid.Validate())

	blank := valid
	blank.Name = "   "
	assert.ErrorIs(t, blank.Validate(), ErrInvalidName)

	noLicense := valid
	noLicense.License = ""
	assert.ErrorIs(t, noLicense.Validate(), ErrInvalidLicense)

	noPhone := valid
	noPhone.Phone = ""
	assert.ErrorIs(t, noPhone.Validate(), ErrInvalidPhone)

	badStatus := valid
	badStatus.Status = "NAPPING"
	assert.ErrorIs(t, badStatus.Validate(), ErrInvalidStatus)
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusAvailable.IsValid())
	assert.True(t, StatusOnTrip.IsValid())
	assert.True(t, StatusInactive.IsValid())
	assert.False(t, Status("").IsValid())
}
