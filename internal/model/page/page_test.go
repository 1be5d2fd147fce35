package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedShape(t *testing.T) {
	c := Seed()
	assert.Len(t, c.QuickPrompts, 3)
	assert.Len(t, c.Stats, 3)
	assert.Len(t, c.Keywords, 4)
	assert.Equal(t, "Привіт, ти хто?", c.InitialDraft)
}

func TestPromptLookup(t *testing.T) {
	c := Seed()

	got, ok := c.Prompt(1)
	require.True(t, ok)
	assert.Equal(t, "Як ти працюєш автономно?", got)

	_, ok = c.Prompt(-1)
	assert.False(t, ok)
	_, ok = c.Prompt(3)
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	c := Seed()
	clone := c.Clone()
	clone.QuickPrompts[0] = "changed"
	clone.Stats[0].Value = "0"

	assert.Equal(t, "Що ти вмієш?", c.QuickPrompts[0])
	assert.Equal(t, "5+", c.Stats[0].Value)
}
