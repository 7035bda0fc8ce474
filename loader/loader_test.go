package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ls8/mem"
)

func TestLoadBasic(t *testing.T) {
	img := strings.Join([]string{
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"",
		"# a comment-only line",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}, "\n")

	m := mem.New()
	err := Load(strings.NewReader(img), m)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x82), m.Read(0))
	assert.Equal(t, byte(0x00), m.Read(1))
	assert.Equal(t, byte(0x08), m.Read(2))
	assert.Equal(t, byte(0x47), m.Read(3))
	assert.Equal(t, byte(0x01), m.Read(5))
}

func TestLoadMalformedLine(t *testing.T) {
	m := mem.New()
	err := Load(strings.NewReader("not binary"), m)
	assert.Error(t, err)
	var lerr *Error
	assert.ErrorAs(t, err, &lerr)
	assert.Equal(t, 1, lerr.Line)
}

func TestLoadBlankAndCommentOnlyLinesIgnored(t *testing.T) {
	m := mem.New()
	err := Load(strings.NewReader("\n# just a comment\n\n00000001\n"), m)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x01), m.Read(0))
	assert.Equal(t, byte(0), m.Read(1))
}
