package models

import "time"

// AppointmentDateLayout is the calendar-date format appointments are
// compared and stored with. No time-of-day component.
const AppointmentDateLayout = "2006-01-02"

// ViewingTimeSlot is a named (start, end) interval offered for viewings,
// independent of any specific date. Times are "HH:MM" strings.
type ViewingTimeSlot struct {
	ID        string    `json:"id" db:"id"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ViewingAppointment binds one user, one time slot and one calendar date.
type ViewingAppointment struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	TimeSlotID      string    `json:"time_slot_id" db:"time_slot_id"`
	AppointmentDate time.Time `json:"appointment_date" db:"appointment_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// AppointmentWithSlot is an appointment joined with its time slot bounds.
type AppointmentWithSlot struct {
	ViewingAppointment
	StartTime string `json:"start_time" db:"start_time"`
	EndTime   string `json:"end_time" db:"end_time"`
}

// DateString returns the appointment date as a calendar date string.
func (a *ViewingAppointment) DateString() string {
	return a.AppointmentDate.Format(AppointmentDateLayout)
}

// AppointmentStats partitions appointment counts against the current date.
type AppointmentStats struct {
	Total    int `json:"total"`
	Upcoming int `json:"upcoming"`
	Past     int `json:"past"`
	Today    int `json:"today"`
}

// SystemStats is the administrative counters response.
type SystemStats struct {
	Users        int              `json:"users"`
	Properties   int              `json:"properties"`
	Appointments AppointmentStats `json:"appointments"`
}
