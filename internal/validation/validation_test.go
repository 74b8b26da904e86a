package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	for _, v := range []string{"a@b.co", "rita.gomez@lab-central.com.ar", "o'neil+x@lab.test", " ana@lab.test "} {
		assert.True(t, ValidEmail(v), v)
	}
	for _, v := range []string{"", "ana", "ana@", "@lab.test", "ana@lab", "ana @lab.test", "ana@-lab.test", strings.Repeat("a", 250) + "@b.co"} {
		assert.False(t, ValidEmail(v), v)
	}
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Receptionist"))
	assert.True(t, ValidName("  Hematología 🩸 "))
	assert.False(t, ValidName("   "))
	assert.False(t, ValidName("bad\x00name"))
	assert.False(t, ValidName(strings.Repeat("x", MaxNameLen+1)))
	assert.True(t, ValidName(strings.Repeat("é", MaxNameLen)))
}

func TestValidImageRef(t *testing.T) {
	assert.True(t, ValidImageRef(""))
	assert.True(t, ValidImageRef("https://cdn.lab.test/a.png"))
	assert.True(t, ValidImageRef("data:image/png;base64,AAAA"))
	assert.False(t, ValidImageRef("javascript:alert(1)"))
	assert.False(t, ValidImageRef("https://x.test/a b.png"))
}
