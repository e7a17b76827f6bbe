package slugify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{"simple title", "My Event!!!", 50, "my-event"},
		{"mixed case", "Birthday PARTY", 50, "birthday-party"},
		{"collapses whitespace", "a   b\t\tc", 50, "a-b-c"},
		{"existing hyphens", "already--slugged---title", 50, "already-slugged-title"},
		{"strips symbols", "cafe & bar @ 9pm", 50, "cafe-bar-9pm"},
		{"strips non-ascii", "日本語 party", 50, "party"},
		{"leading and trailing junk", "  --hello--  ", 50, "hello"},
		{"all stripped", "!!!###", 50, ""},
		{"no limit", "one two three", 0, "one-two-three"},
		{"keeps digits", "room 101", 50, "room-101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.input, tt.maxLength))
		})
	}
}

func TestMakeTruncation(t *testing.T) {
	long := strings.Repeat("word ", 30)

	got := Make(long, 50)
	assert.LessOrEqual(t, len([]rune(got)), 50)
	assert.False(t, strings.HasSuffix(got, "-"), "truncation must not leave a trailing hyphen")

	// Cut point landing exactly on a hyphen
	got = Make("abcde fghij", 6)
	assert.Equal(t, "abcde", got)
}
