package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStyle_KnownNames(t *testing.T) {
	for _, name := range []string{"Error", "Success", "Warning", "Path", "Subtle"} {
		t.Run(name, func(t *testing.T) {
			// rendering must not panic and must keep the text
			out := GetStyle(name).Render("hello")
			assert.Contains(t, out, "hello")
		})
	}
}

func TestGetStyle_UnknownNameFallsBack(t *testing.T) {
	assert.Equal(t, "hello", GetStyle("NoSuchStyle").Render("hello"))
}
