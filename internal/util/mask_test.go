package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "r…@l….test", MaskEmail(" Rita.Gomez@Lab.test "))
	assert.Equal(t, "a@l….test", MaskEmail("a@lab.test"))
	assert.Equal(t, "***", MaskEmail("abc"))
	assert.Equal(t, "", MaskEmail(""))
	assert.Equal(t, "n…n", MaskEmail("no-at-sign"))
}
