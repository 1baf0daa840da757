// Package persona defines the companion's behavioral variants. The set is
// closed: adding a persona means adding a constant and extending every
// switch, which the compiler and tests both check.
package persona

import (
	"fmt"
	"math/rand"
)

type Persona string

const (
	Roaster  Persona = "roaster"
	HypeMan  Persona = "hype_man"
	WiseSage Persona = "wise_sage"
)

// All personas, in display order.
var All = []Persona{Roaster, HypeMan, WiseSage}

func Parse(s string) (Persona, error) {
	switch Persona(s) {
	case Roaster, HypeMan, WiseSage:
		return Persona(s), nil
	}
	return "", fmt.Errorf("unknown persona %q", s)
}

// DefaultCompanionName is used when the user skips naming their companion.
func (p Persona) DefaultCompanionName() string {
	switch p {
	case Roaster:
		return "Blaze"
	case HypeMan:
		return "Max"
	case WiseSage:
		return "Sage"
	}
	return "Buddy"
}

// SystemPrompt steers the hosted text-generation service. Each persona has
// its own voice; the numbers in the user prompt come from the caller.
func (p Persona) SystemPrompt() string {
	switch p {
	case Roaster:
		return "You are a sarcastic financial companion. Roast the user's spending in one or two sentences. Be funny, never cruel, and never give actual financial advice beyond the obvious."
	case HypeMan:
		return "You are an over-the-top hype man for the user's finances. Celebrate every bit of progress loudly in one or two sentences, all caps welcome."
	case WiseSage:
		return "You are a calm, wise financial mentor. Respond in one or two reflective sentences, favoring gentle metaphors over direct criticism."
	}
	return "You are a friendly financial companion. Reply in one or two short sentences."
}

// FallbackContext selects which local message set stands in when the hosted
// service is unavailable.
type FallbackContext string

const (
	ContextExpenseAdded FallbackContext = "expense_added"
	ContextOverspending FallbackContext = "overspending"
	ContextSavingWell   FallbackContext = "saving_well"
	ContextChat         FallbackContext = "chat"
)

var fallbacks = map[FallbackContext]map[Persona][]string{
	ContextExpenseAdded: {
		Roaster: {
			"Oh great, another expense. At this rate your wallet will file for bankruptcy before you do.",
			"Spending again? Your bank account called, it wants to break up with you.",
		},
		HypeMan: {
			"YES! You logged that expense! Tracking is the first step to mastery!",
			"Look at you being financially responsible! You're doing AMAZING!",
		},
		WiseSage: {
			"Awareness precedes change. Every expense tracked is a lesson learned.",
			"Mindful spending begins with noticing. You are cultivating financial consciousness.",
		},
	},
	ContextOverspending: {
		Roaster: {
			"Overspending AGAIN? Your budget is more like a suggestion to you, isn't it?",
			"Your budget called. It's filing a restraining order against your spending habits.",
		},
		HypeMan: {
			"Okay, we went over a bit, but you NOTICED! That's the power right there!",
			"Every champion has setbacks! Let's bounce back stronger!",
		},
		WiseSage: {
			"The river sometimes overflows its banks, teaching us the value of boundaries.",
			"In moments of excess we find the clearest lessons.",
		},
	},
	ContextSavingWell: {
		Roaster: {
			"Look at you, actually saving money! Did hell freeze over? Don't blow it now.",
			"Under budget? I'm shocked. Genuinely shocked. Don't make me regret this compliment.",
		},
		HypeMan: {
			"LEGEND! You're crushing those savings goals! THIS IS YOUR MOMENT!",
			"You're not just saving money, you're building your DREAM FUTURE!",
		},
		WiseSage: {
			"Like a river that flows steadily, your savings grow with patience and discipline.",
			"The wealth you build today becomes the freedom you enjoy tomorrow.",
		},
	},
	ContextChat: {
		Roaster: {
			"My crystal ball is in the shop. Ask me about your spending instead.",
			"I'd love to chat, but have you seen your budget lately? Let's start there.",
		},
		HypeMan: {
			"I'm HERE for you! Ask me about your streak, your goals, ANYTHING!",
			"Whatever you need, we've GOT this! What's on your mind, champion?",
		},
		WiseSage: {
			"Ask, and we shall reflect on it together.",
			"Every question is a doorway. Which shall we open?",
		},
	},
}

// Fallback returns a local templated message for the given context,
// guaranteeing the user-visible flow never surfaces an upstream failure.
// rng varies the wording; nil picks the first option.
func Fallback(p Persona, ctx FallbackContext, rng *rand.Rand) string {
	set, ok := fallbacks[ctx]
	if !ok {
		set = fallbacks[ContextChat]
	}
	options := set[p]
	if len(options) == 0 {
		return "I'm here whenever you want to talk money."
	}
	if rng == nil {
		return options[0]
	}
	return options[rng.Intn(len(options))]
}
