// Package format renders domain objects into display strings for the chat
// channel. Rendering is presentation only: nothing here mutates or
// re-fetches data.
package format

import (
	"fmt"
	"strings"

	"github.com/waqas1412/ReAgentWABot-sub001/pkg/models"
)

// Layouts used for appointment lines. Parsing a formatted line with these
// layouts yields the original date and slot boundaries.
const (
	AppointmentDateLayout = "Monday, 02 Jan 2006"
	TimeSlotLayout        = "15:04"
)

// Property renders a property into its multi-line display block.
func Property(p models.PropertyDetail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏠 %s\n", p.Address)
	fmt.Fprintf(&b, "💰 $%s", formatAmount(p.Price))
	if p.AreaSqm > 0 {
		fmt.Fprintf(&b, " ($%s/sqm)", formatAmount(p.Price/p.AreaSqm))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "🛏 %d bed · 🛁 %d bath\n", p.Bedrooms, p.Bathrooms)

	if p.DistrictName != nil && *p.DistrictName != "" {
		fmt.Fprintf(&b, "📍 %s\n", *p.DistrictName)
	}
	if p.ApartmentTypeName != nil && *p.ApartmentTypeName != "" {
		fmt.Fprintf(&b, "🏢 %s\n", *p.ApartmentTypeName)
	}
	if p.Features != nil && *p.Features != "" {
		fmt.Fprintf(&b, "✨ %s\n", *p.Features)
	}
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(&b, "%s\n", *p.Description)
	}
	if p.ListingURL != nil && *p.ListingURL != "" {
		fmt.Fprintf(&b, "🔗 %s\n", *p.ListingURL)
	}

	return strings.TrimRight(b.String(), "\n")
}

// PropertyList renders up to the given properties separated by blank lines.
func PropertyList(properties []models.PropertyDetail) string {
	blocks := make([]string, 0, len(properties))
	for _, p := range properties {
		blocks = append(blocks, Property(p))
	}
	return strings.Join(blocks, "\n\n")
}

// Appointment renders an appointment as a single line of local date plus the
// time-slot range, e.g. "Monday, 02 Jan 2006 at 09:00 - 10:00".
func Appointment(a models.AppointmentWithSlot) string {
	return fmt.Sprintf("%s at %s - %s",
		a.AppointmentDate.Format(AppointmentDateLayout),
		a.StartTime,
		a.EndTime,
	)
}

// TimeSlot renders a slot range, e.g. "09:00 - 10:00".
func TimeSlot(ts models.ViewingTimeSlot) string {
	return fmt.Sprintf("%s - %s", ts.StartTime, ts.EndTime)
}

// formatAmount renders a price with thousands separators and no trailing
// zero cents.
func formatAmount(amount float64) string {
	whole := int64(amount)
	cents := amount - float64(whole)

	s := fmt.Sprintf("%d", whole)
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}

	if cents >= 0.005 {
		return fmt.Sprintf("%s.%02d", b.String(), int(cents*100+0.5))
	}
	return b.String()
}
