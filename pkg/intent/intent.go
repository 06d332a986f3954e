package intent

import "strings"

// Intent is the classified purpose of an inbound message.
type Intent string

const (
	IntentMedia        Intent = "media"
	IntentHelp         Intent = "help"
	IntentSearch       Intent = "search"
	IntentPreferences  Intent = "preferences"
	IntentViewing      Intent = "viewing"
	IntentAppointments Intent = "appointments"
	IntentProfile      Intent = "profile"
	IntentJoin         Intent = "join"
	IntentBudget       Intent = "budget"
	IntentLocation     Intent = "location"
	IntentFallback     Intent = "fallback"
)

// rule pairs an intent with its matcher. Rules are evaluated in slice order
// and the first match wins; a message matching several rules is honored only
// for the earliest. The order is part of the observable contract.
type rule struct {
	intent Intent
	match  func(text string) bool
}

// rules is the fixed priority order.
var rules = []rule{
	{IntentHelp, containsAny("help", "menu", "start")},
	{IntentSearch, containsAny("search", "property", "properties")},
	{IntentPreferences, containsAny("preferences", "preference")},
	{IntentViewing, containsAnyWord("appointment", "viewing", "schedule")},
	{IntentAppointments, equalsAny("my appointments", "appointments")},
	{IntentProfile, containsAny("profile", "account")},
	{IntentJoin, hasPrefix("join")},
	{IntentBudget, containsAny("budget", "price", "$")},
	{IntentLocation, containsAny("location", "area", "district")},
}

// Normalize trims whitespace and lower-cases the message text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Classify returns the first matching intent for normalized text.
func Classify(text string) Intent {
	for _, r := range rules {
		if r.match(text) {
			return r.intent
		}
	}
	return IntentFallback
}

func containsAny(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// containsAnyWord matches whole words only, so the exact listing phrases
// ("appointments", "my appointments") fall through to their own rule.
func containsAnyWord(keywords ...string) func(string) bool {
	return func(text string) bool {
		words := strings.FieldsFunc(text, func(r rune) bool {
			return r == ' ' || r == ',' || r == '.' || r == '?' || r == '!'
		})
		for _, kw := range keywords {
			for _, w := range words {
				if w == kw {
					return true
				}
			}
		}
		return false
	}
}

func equalsAny(values ...string) func(string) bool {
	return func(text string) bool {
		for _, v := range values {
			if text == v {
				return true
			}
		}
		return false
	}
}

func hasPrefix(prefix string) func(string) bool {
	return func(text string) bool {
		return strings.HasPrefix(text, prefix)
	}
}
