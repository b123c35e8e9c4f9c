package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeAcceptsValidSource(t *testing.T) {
	assert.True(t, Sanitize("ok.go", []byte("package p\n\nfunc f() {}\n")))
}

func TestSanitizeRejectsMalformedSource(t *testing.T) {
	assert.False(t, Sanitize("bad.go", []byte("package p\n\nfunc f( {\n")))
}

func TestSanitizeRejectsNonUTF8(t *testing.T) {
	assert.False(t, Sanitize("bad.go", []byte{0xff, 0xfe, 0x00}))
}
