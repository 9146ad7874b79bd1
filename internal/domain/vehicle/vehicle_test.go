package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := Vehicle{Model: "Transit Van", RegNumber: "VAN-001", Capacity: 3, Status: StatusAvailable}
	assert.NoError(t, valid.Validate())

	noModel := valid
	noModel.Model = " "
	assert.ErrorIs(t, noModel.Validate(), ErrInvalidModel)

	noReg := valid
	noReg.RegNumber = ""
	assert.ErrorIs(t, noReg.Validate(), ErrInvalidRegNumber)

	zeroCapacity := valid
	zeroCapacity.Capacity = 0
	assert.ErrorIs(t, zeroCapacity.Validate(), ErrInvalidCapacity)

	negativeCapacity := valid
	negativeCapacity.Capacity = -1
	assert.ErrorIs(t, negativeCapacity.Validate(), ErrInvalidCapacity)

	badStatus := valid
	badStatus.Status = "PARKED"
	assert.ErrorIs(t, badStatus.Validate(), ErrInvalidStatus)
}
