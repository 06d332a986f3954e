package intent

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/format"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/metrics"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

// PropertySearcher covers the property lookups the router performs.
type PropertySearcher interface {
	SearchProperties(ctx context.Context, criteria models.SearchCriteria, opts models.SearchOptions) ([]models.PropertyDetail, error)
	GetPropertiesForUser(ctx context.Context, userID string, opts models.SearchOptions) ([]models.PropertyDetail, error)
}

// PreferenceReader covers the preference lookups the router performs.
type PreferenceReader interface {
	GetPreferences(ctx context.Context, phone string) (*models.UserPreference, error)
}

// AppointmentReader covers the viewing lookups the router performs.
type AppointmentReader interface {
	GetAvailableTimeSlots(ctx context.Context, date time.Time) ([]models.ViewingTimeSlot, error)
	GetUserAppointments(ctx context.Context, phone string) ([]models.AppointmentWithSlot, error)
}

// DistrictLister covers the location lookups the router performs.
type DistrictLister interface {
	ListDistricts(ctx context.Context) ([]models.District, error)
}

type Router struct {
	properties   PropertySearcher
	preferences  PreferenceReader
	appointments AppointmentReader
	districts    DistrictLister
	logger       ectologger.Logger
	searchLimit  int
	pick         func(n int) int
	now          func() time.Time
}

// NewRouter returns a router dispatching classified messages to the domain
// services. searchLimit caps search result listings.
func NewRouter(
	properties PropertySearcher,
	preferences PreferenceReader,
	appointments AppointmentReader,
	districts DistrictLister,
	logger ectologger.Logger,
	searchLimit int,
) *Router {
	return &Router{
		properties:   properties,
		preferences:  preferences,
		appointments: appointments,
		districts:    districts,
		logger:       logger,
		searchLimit:  searchLimit,
		pick:         rand.Intn,
		now:          time.Now,
	}
}

const helpText = `👋 Hi! I can help you find your next home. Try:

🔍 "search" to browse properties matching your preferences
⚙️ "preferences" to see your saved preferences
💰 "budget $1000-2000" to search within a price range
📍 "location" to list available districts
📅 "viewing" to see available viewing times
🗓 "my appointments" to list your booked viewings
👤 "profile" to see your account
❓ "help" to see this menu again`

const apologyText = "😔 Sorry, something went wrong on our side. Please try again in a moment."

var fallbackTemplates = []string{
	"🤔 I didn't quite get \"%s\". Type \"help\" to see what I can do.",
	"Hmm, I'm not sure what \"%s\" means. Send \"help\" for the menu.",
	"I couldn't match \"%s\" to anything I know. Try \"help\" to get started.",
}

// Route classifies an inbound message and produces the reply. It never
// returns nil: any downstream failure degrades to a generic apology so the
// sender always gets an answer.
func (r *Router) Route(ctx context.Context, msg models.InboundMessage, user *models.UserWithRole) *models.Response {
	if msg.MediaCount > 0 {
		metrics.MessagesRoutedTotal.WithLabelValues(string(IntentMedia)).Inc()
		return models.TextResponse("📎 Thanks for the file! I can't process attachments yet, but feel free to describe what you're looking for in text.")
	}

	normalized := Normalize(msg.Text)
	matched := Classify(normalized)
	metrics.MessagesRoutedTotal.WithLabelValues(string(matched)).Inc()

	resp, err := r.dispatch(ctx, matched, normalized, msg, user)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).
			WithField("intent", string(matched)).
			Error("failed to handle message")
		return models.TextResponse(apologyText)
	}
	return resp
}

func (r *Router) dispatch(ctx context.Context, matched Intent, normalized string, msg models.InboundMessage, user *models.UserWithRole) (*models.Response, error) {
	switch matched {
	case IntentHelp:
		return models.TextResponse(helpText), nil
	case IntentSearch:
		return r.handleSearch(ctx, user)
	case IntentPreferences:
		return r.handlePreferences(ctx, user)
	case IntentViewing:
		return r.handleViewing(ctx)
	case IntentAppointments:
		return r.handleAppointments(ctx, user)
	case IntentProfile:
		return r.handleProfile(user), nil
	case IntentJoin:
		return models.TextResponse("🎉 Welcome aboard! You're all set. Type \"help\" to see what I can do."), nil
	case IntentBudget:
		return r.handleBudget(ctx, msg.Text)
	case IntentLocation:
		return r.handleLocation(ctx)
	default:
		template := fallbackTemplates[r.pick(len(fallbackTemplates))]
		return models.TextResponse(fmt.Sprintf(template, strings.TrimSpace(msg.Text))), nil
	}
}

func (r *Router) handleSearch(ctx context.Context, user *models.UserWithRole) (*models.Response, error) {
	results, err := r.properties.GetPropertiesForUser(ctx, user.ID, models.SearchOptions{Limit: r.searchLimit})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		// An empty result means either no saved preferences or no matches;
		// the prompts differ.
		prefs, err := r.preferences.GetPreferences(ctx, user.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if prefs != nil {
			return models.TextResponse("🔍 No properties match your preferences right now. Try widening your budget (e.g. \"budget $1000-2000\") or check back later."), nil
		}
		return models.TextResponse("I don't have saved preferences for you yet, so I can't tailor a search. Tell me your budget (e.g. \"budget $1000-2000\") or a location to get started."), nil
	}
	header := fmt.Sprintf("🔍 Here are %d properties for you:\n\n", len(results))
	return models.TextResponse(header + format.PropertyList(results)), nil
}

func (r *Router) handlePreferences(ctx context.Context, user *models.UserWithRole) (*models.Response, error) {
	prefs, err := r.preferences.GetPreferences(ctx, user.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return models.TextResponse("You haven't set any preferences yet. Tell me a budget (e.g. \"budget $1000-2000\") or a preferred location."), nil
	}

	var b strings.Builder
	b.WriteString("⚙️ Your preferences:\n")
	if prefs.BudgetMin != nil || prefs.BudgetMax != nil {
		b.WriteString("💰 Budget: ")
		if prefs.BudgetMin != nil {
			fmt.Fprintf(&b, "$%.0f", *prefs.BudgetMin)
		}
		b.WriteString(" - ")
		if prefs.BudgetMax != nil {
			fmt.Fprintf(&b, "$%.0f", *prefs.BudgetMax)
		}
		b.WriteString("\n")
	}
	if prefs.BedroomsMin != nil {
		fmt.Fprintf(&b, "🛏 Bedrooms: %d+\n", *prefs.BedroomsMin)
	}
	if prefs.BathroomsMin != nil {
		fmt.Fprintf(&b, "🛁 Bathrooms: %d+\n", *prefs.BathroomsMin)
	}
	if prefs.PreferredLocation != nil && *prefs.PreferredLocation != "" {
		fmt.Fprintf(&b, "📍 Location: %s\n", *prefs.PreferredLocation)
	}
	return models.TextResponse(strings.TrimRight(b.String(), "\n")), nil
}

func (r *Router) handleViewing(ctx context.Context) (*models.Response, error) {
	date := r.now().AddDate(0, 0, 1)
	slots, err := r.appointments.GetAvailableTimeSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return models.TextResponse("📅 No viewing slots are available tomorrow. Please check back later."), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Available viewing times for %s:\n", date.Format(format.AppointmentDateLayout))
	for _, slot := range slots {
		fmt.Fprintf(&b, "• %s\n", format.TimeSlot(slot))
	}
	b.WriteString("\nReply with a time to book a viewing.")
	return models.TextResponse(b.String()), nil
}

func (r *Router) handleAppointments(ctx context.Context, user *models.UserWithRole) (*models.Response, error) {
	appointments, err := r.appointments.GetUserAppointments(ctx, user.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return models.TextResponse("🗓 You have no booked viewings. Send \"viewing\" to see available times."), nil
	}
	var b strings.Builder
	b.WriteString("🗓 Your viewings:\n")
	for _, a := range appointments {
		fmt.Fprintf(&b, "• %s\n", format.Appointment(a))
	}
	return models.TextResponse(strings.TrimRight(b.String(), "\n")), nil
}

func (r *Router) handleProfile(user *models.UserWithRole) *models.Response {
	var b strings.Builder
	b.WriteString("👤 Your profile:\n")
	fmt.Fprintf(&b, "📛 Name: %s\n", user.DisplayName())
	fmt.Fprintf(&b, "📞 Phone: %s\n", user.PhoneNumber)
	fmt.Fprintf(&b, "🏷 Role: %s", user.RoleName)
	return models.TextResponse(b.String())
}

func (r *Router) handleBudget(ctx context.Context, text string) (*models.Response, error) {
	minBudget, maxBudget, ok := ParseBudget(text)
	if !ok {
		return models.TextResponse("💰 Tell me your budget with an amount, e.g. \"budget $1000-2000\" or \"budget $1500\"."), nil
	}

	status := models.PropertyStatusActive
	criteria := models.SearchCriteria{
		MinPrice: &minBudget,
		MaxPrice: &maxBudget,
		Status:   &status,
	}
	results, err := r.properties.SearchProperties(ctx, criteria, models.SearchOptions{Limit: r.searchLimit})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return models.TextResponse(fmt.Sprintf("😕 No properties found between $%.0f and $%.0f. Try a wider range.", minBudget, maxBudget)), nil
	}
	header := fmt.Sprintf("💰 Found %d properties between $%.0f and $%.0f:\n\n", len(results), minBudget, maxBudget)
	return models.TextResponse(header + format.PropertyList(results)), nil
}

func (r *Router) handleLocation(ctx context.Context) (*models.Response, error) {
	districts, err := r.districts.ListDistricts(ctx)
	if err != nil {
		return nil, err
	}
	if len(districts) == 0 {
		return models.TextResponse("📍 No districts are listed yet. Please check back later."), nil
	}
	var b strings.Builder
	b.WriteString("📍 Available districts:\n")
	for _, d := range districts {
		fmt.Fprintf(&b, "• %s\n", d.Name)
	}
	b.WriteString("\nTell me which one you prefer, e.g. \"location Downtown\".")
	return models.TextResponse(b.String()), nil
}
