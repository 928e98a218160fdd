package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhoneNumber(t *testing.T) {
	// Leading zeros are stripped before the country code is added
	assert.Equal(t, "+225701020304", FormatPhoneNumber("07 01 02 03 04"))
	assert.Equal(t, "+2250701020304", FormatPhoneNumber("+225 07 01 02 03 04"))
	assert.Equal(t, "+2250701020304", FormatPhoneNumber("2250701020304"))
	assert.Equal(t, "", FormatPhoneNumber(""))
	assert.Equal(t, "", FormatPhoneNumber("---"))
}
