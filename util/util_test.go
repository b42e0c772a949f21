package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetKeysSorted(t *testing.T) {
	m := map[uint8]bool{64: true, 60: true, 67: true}
	assert.Equal(t, GetKeysSorted(m), []uint8{60, 64, 67})
}

func TestMin(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Min(3, 7), 3)
	assert.Equal(Min(7, 3), 3)
	assert.Equal(Min(5, 5), 5)
}
