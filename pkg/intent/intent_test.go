package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello", Normalize("  Hello \n"))
	assert.Equal(t, "my appointments", Normalize("My Appointments"))
	assert.Equal(t, "", Normalize("   "))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"help keyword", "help", IntentHelp},
		{"menu keyword", "show me the menu", IntentHelp},
		{"start keyword", "start", IntentHelp},
		{"search keyword", "search for apartments", IntentSearch},
		{"property keyword", "any property in dubai", IntentSearch},
		{"preferences keyword", "update my preferences", IntentPreferences},
		{"viewing keyword", "book a viewing", IntentViewing},
		{"schedule keyword", "schedule a visit", IntentViewing},
		{"appointment singular", "i need an appointment", IntentViewing},
		{"exact my appointments", "my appointments", IntentAppointments},
		{"exact appointments", "appointments", IntentAppointments},
		{"profile keyword", "show my profile", IntentProfile},
		{"account keyword", "my account", IntentProfile},
		{"join prefix", "join the waitlist", IntentJoin},
		{"budget keyword", "my budget is low", IntentBudget},
		{"price keyword", "what is the price", IntentBudget},
		{"dollar sign", "$1000-2000", IntentBudget},
		{"location keyword", "change my location", IntentLocation},
		{"area keyword", "which area is best", IntentLocation},
		{"district keyword", "list district options", IntentLocation},
		{"no match", "good morning", IntentFallback},
		{"empty", "", IntentFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(Normalize(tt.text)))
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	t.Run("help wins over search", func(t *testing.T) {
		assert.Equal(t, IntentHelp, Classify("help me search"))
	})

	t.Run("search wins over budget", func(t *testing.T) {
		assert.Equal(t, IntentSearch, Classify("search under $1000"))
	})

	t.Run("viewing wins over budget", func(t *testing.T) {
		assert.Equal(t, IntentViewing, Classify("schedule a viewing, budget $1000"))
	})

	t.Run("preferences wins over location", func(t *testing.T) {
		assert.Equal(t, IntentPreferences, Classify("preferences for location"))
	})

	t.Run("substring of another word still matches containment rules", func(t *testing.T) {
		// "restart" contains "start"
		assert.Equal(t, IntentHelp, Classify("restart"))
	})
}
