package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp0", FormatRupiah(0))
	assert.Equal(t, "Rp8.000", FormatRupiah(8000))
	assert.Equal(t, "Rp25.000", FormatRupiah(25000))
	assert.Equal(t, "Rp58.000", FormatRupiah(58000))
	assert.Equal(t, "Rp1.250.000", FormatRupiah(1250000))
	assert.Equal(t, "-Rp5.000", FormatRupiah(-5000))
}
