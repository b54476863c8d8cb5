package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateMessage(t *testing.T) {
	assert.True(t, IsDuplicateMessage("Gateway Rejected: duplicate"))
	assert.True(t, IsDuplicateMessage("DUPLICATE transaction"))
	assert.False(t, IsDuplicateMessage("Do Not Honor"))
	assert.False(t, IsDuplicateMessage(""))
}

func TestDeclinedError(t *testing.T) {
	var err error = &DeclinedError{Message: "Insufficient Funds"}
	var de *DeclinedError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "payment: declined: Insufficient Funds", err.Error())
	assert.Equal(t, "payment: declined", (&DeclinedError{}).Error())
}
