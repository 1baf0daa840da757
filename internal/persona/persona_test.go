package persona

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, p := range All {
		got, err := Parse(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	for _, bad := range []string{"", "ROASTER", "hypeman", "sage"} {
		_, err := Parse(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestDefaultCompanionName(t *testing.T) {
	assert.Equal(t, "Blaze", Roaster.DefaultCompanionName())
	assert.Equal(t, "Max", HypeMan.DefaultCompanionName())
	assert.Equal(t, "Sage", WiseSage.DefaultCompanionName())
	assert.Equal(t, "Buddy", Persona("bogus").DefaultCompanionName())
}

func TestSystemPrompt_DistinctPerPersona(t *testing.T) {
	seen := map[string]Persona{}
	for _, p := range All {
		prompt := p.SystemPrompt()
		require.NotEmpty(t, prompt)
		if prev, dup := seen[prompt]; dup {
			t.Fatalf("%s and %s share a system prompt", prev, p)
		}
		seen[prompt] = p
	}
}

func TestFallback_CoversEveryPersonaAndContext(t *testing.T) {
	contexts := []FallbackContext{ContextExpenseAdded, ContextOverspending, ContextSavingWell, ContextChat}
	for _, ctx := range contexts {
		for _, p := range All {
			msg := Fallback(p, ctx, nil)
			assert.NotEmpty(t, msg, "persona=%s context=%s", p, ctx)
			assert.NotEqual(t, "I'm here whenever you want to talk money.", msg,
				"persona=%s context=%s should have its own lines", p, ctx)
		}
	}
}

func TestFallback_UnknownContextFallsBackToChat(t *testing.T) {
	got := Fallback(Roaster, FallbackContext("weather"), nil)
	assert.Equal(t, Fallback(Roaster, ContextChat, nil), got)
}

func TestFallback_UnknownPersonaGetsGenericLine(t *testing.T) {
	got := Fallback(Persona("bogus"), ContextChat, nil)
	assert.Equal(t, "I'm here whenever you want to talk money.", got)
}

func TestFallback_SeededVariation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[Fallback(HypeMan, ContextChat, rng)] = true
	}
	assert.Len(t, seen, 2)
}
