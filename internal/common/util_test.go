package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("s3cret")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 6), buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestBearerValue(t *testing.T) {
	assert.Equal(t, "Bearer abc.def", BearerValue("abc.def"))
}
