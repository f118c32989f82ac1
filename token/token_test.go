package token

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_NestedGroups(t *testing.T) {
	a := New(TypeText, "a", nil, nil)
	b := New(TypeText, "b", nil, nil)
	c := New(TypeText, "c", nil, nil)

	got := Flatten(Group{Group{a, Group{b}}, c})

	require.Len(t, got, 3)
	assert.Same(t, a, got[0])
	assert.Same(t, b, got[1])
	assert.Same(t, c, got[2])
}

func TestFlatten_SingleAndEmpty(t *testing.T) {
	a := New(TypeText, "a", nil, nil)

	assert.Equal(t, Tokens{a}, Flatten(a))
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten(Group{}))

	var missing *Token
	assert.Equal(t, Tokens{a}, Flatten(Group{missing, Tokens{a}, nil}))
}

func TestClone_FreshMetaSharedValue(t *testing.T) {
	orig := New(TypeText, "hi", map[string]any{"volume": 1}, map[string]any{"reader": "x"})

	c := orig.Clone(map[string]any{"transformer": "clone"})

	assert.NotSame(t, orig, c)
	assert.Equal(t, "hi", c.Value)
	assert.Equal(t, 1, c.Options["volume"])
	assert.Nil(t, c.Meta().Value("reader"))
	assert.Equal(t, "clone", c.Meta().Value("transformer"))

	c.Options["volume"] = 2
	assert.Equal(t, 1, orig.Options["volume"], "options are copied")
}

func TestNew_CopiesInputs(t *testing.T) {
	opts := map[string]any{"k": "v"}
	meta := map[string]any{"m": 1}
	tok := New("word", "x", opts, meta)

	opts["k"] = "changed"
	meta["m"] = 2

	assert.Equal(t, "v", tok.Options["k"])
	assert.Equal(t, 1, tok.Meta().Value("m"))
	assert.Equal(t, "word:x", tok.String())
}

func TestMeta_ConcurrentAccess(t *testing.T) {
	tok := New(TypeText, "x", nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok.Meta().Set("n", i)
			_ = tok.Meta().Snapshot()
		}(i)
	}
	wg.Wait()

	_, ok := tok.Meta().Get("n")
	assert.True(t, ok)
	tok.Meta().Delete("n")
	_, ok = tok.Meta().Get("n")
	assert.False(t, ok)
}

func TestZeroToken_MetaIsUsable(t *testing.T) {
	var tok Token
	tok.Meta().Set("a", 1)
	assert.Equal(t, 1, tok.Meta().Value("a"))
}
