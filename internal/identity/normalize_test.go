package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "MG-069", NormalizeCode("  mg-069 "))
	assert.Equal(t, "MG069", NormalizeCode("mg 069"))
	assert.Equal(t, "MG069", NormalizeCode("\tMg 069\n"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABC123", NormalizePlate(" abc-123 "))
	assert.Equal(t, "ABC123", NormalizePlate("A B C 1 2 3"))
	assert.Equal(t, "", NormalizePlate(""))
}

func TestNormalizeIdempotent(t *testing.T) {
	code := NormalizeCode("  mg - 069 ")
	assert.Equal(t, code, NormalizeCode(code))

	plate := NormalizePlate(" abc-123 ")
	assert.Equal(t, plate, NormalizePlate(plate))
}
