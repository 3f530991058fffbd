package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate(PrefixBook)
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{PrefixBook, PrefixReview, PrefixComment, PrefixClient} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, prefix+"-"))
			// 21 character nanoid after the hyphen.
			assert.Len(t, strings.TrimPrefix(id, prefix+"-"), 21)
		})
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate(PrefixComment)
		assert.True(t, strings.HasPrefix(id, "comment-"))
	})
}

func TestSequence(t *testing.T) {
	gen := Sequence()

	first, _ := gen(PrefixBook)
	second, _ := gen(PrefixBook)
	review, _ := gen(PrefixReview)

	assert.Equal(t, "book-1", first)
	assert.Equal(t, "book-2", second)
	assert.Equal(t, "review-1", review)
}
