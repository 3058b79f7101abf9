package handlers

import (
	"testing"

	"github.com/gosimple/slug"
	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, parseTags(`["go","web"]`))
	assert.Equal(t, []string{"go", "web"}, parseTags("go, web"))
	assert.Equal(t, []string{"go"}, parseTags(" go ,  "))
	assert.Empty(t, parseTags(""))
	assert.Empty(t, parseTags("   "))
}

func TestSlugDerivation(t *testing.T) {
	assert.Equal(t, "hello-world", slug.Make("Hello World"))
	assert.Equal(t, "hello-world", slug.Make("Hello, World!"))
	// Same title, same slug: the collision check is what keeps titles unique.
	assert.Equal(t, slug.Make("My Title"), slug.Make("My Title"))
}
