package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWrite(t *testing.T) {
	m := New()
	m.Write(0x10, 0xAB)
	assert.Equal(t, byte(0xAB), m.Read(0x10))
	assert.Equal(t, byte(0), m.Read(0x11))
}

func TestInVectorTable(t *testing.T) {
	assert.False(t, InVectorTable(0xF7))
	assert.True(t, InVectorTable(0xF8))
	assert.True(t, InVectorTable(0xFF))
}
