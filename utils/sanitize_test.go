package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_StripsScripts(t *testing.T) {
	out := Sanitize(`<p>hello</p><script>alert(1)</script>`)
	assert.Equal(t, "<p>hello</p>", out)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello", CleanText("  hello  "))
	assert.Equal(t, "", CleanText("   "))
	assert.Equal(t, "", CleanText("<script>alert(1)</script>"))
	assert.Equal(t, "Don't & stop", CleanText("Don't & stop"))
	assert.Equal(t, "a < b", CleanText("a < b"))
	assert.Equal(t, `say "hi"`, CleanText(`say "hi"<script>x</script>`))
}
