/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  JSON structures decoupling the internal domain model from the external
  API contract. Dates serialize as ISO yyyy-mm-dd, hour quantities as
  decimal strings (never floats), and unknown hours as null.

NAMING CONVENTION:
  *DTO: Response types returned to clients.

SEE ALSO:
  - handlers.go: Builds these from the latest run result
*/
package api

import (
	"github.com/warp/ingest-engine/absence"
	"github.com/warp/ingest-engine/timesheet"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CaseDTO is one normalized absence case.
type CaseDTO struct {
	CaseID          string `json:"case_id"`
	Employee        string `json:"employee"`
	Team            string `json:"team"`
	Country         string `json:"country"`
	Organisation    string `json:"organisation,omitempty"`
	Suborganisation string `json:"suborganisation,omitempty"`
	Category        string `json:"category"`
	Start           string `json:"start"`
	End             string `json:"end"`
	SpanDays        int    `json:"span_days"`
	EntitlementDays string `json:"entitlement_days,omitempty"`
}

// DailyFactDTO is one case on one calendar day.
type DailyFactDTO struct {
	Date      string `json:"date"`
	Employee  string `json:"employee"`
	Team      string `json:"team"`
	Country   string `json:"country"`
	Category  string `json:"category"`
	CaseID    string `json:"case_id"`
	IsWeekday bool   `json:"is_weekday"`
	WeekStart string `json:"week_start"`
	ISOWeek   string `json:"iso_week"`
}

// TimesheetRecordDTO is one normalized clock event.
type TimesheetRecordDTO struct {
	Employee      string  `json:"employee"`
	Team          string  `json:"team,omitempty"`
	BlipType      string  `json:"blip_type"`
	ClockInDate   string  `json:"clock_in_date"`
	ClockInTime   string  `json:"clock_in_time"`
	ClockOut      string  `json:"clock_out,omitempty"`
	DurationHours *string `json:"duration_hours"` // null = unknown
	WorkedHours   *string `json:"worked_hours"`   // null = unknown
	BreakHours    string  `json:"break_hours"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toCaseDTO(c absence.Case) CaseDTO {
	dto := CaseDTO{
		CaseID:          c.CaseID,
		Employee:        c.Employee,
		Team:            c.Team,
		Country:         c.Country,
		Organisation:    c.Organisation,
		Suborganisation: c.Suborganisation,
		Category:        string(c.Category),
		Start:           c.Start.String(),
		End:             c.End.String(),
		SpanDays:        c.SpanDays(),
	}
	if c.EntitlementDays != nil {
		dto.EntitlementDays = c.EntitlementDays.String()
	}
	return dto
}

func toDailyFactDTO(f absence.DailyFact) DailyFactDTO {
	return DailyFactDTO{
		Date:      f.Date.String(),
		Employee:  f.Employee,
		Team:      f.Team,
		Country:   f.Country,
		Category:  string(f.Category),
		CaseID:    f.CaseID,
		IsWeekday: f.IsWeekday,
		WeekStart: f.WeekStart.String(),
		ISOWeek:   f.ISOWeek,
	}
}

func toTimesheetRecordDTO(r timesheet.Record) TimesheetRecordDTO {
	dto := TimesheetRecordDTO{
		Employee:    r.Employee,
		Team:        r.Team,
		BlipType:    string(r.BlipType),
		ClockInDate: r.ClockInDate.String(),
		ClockInTime: r.ClockInTime,
		BreakHours:  r.BreakHours.String(),
	}
	if r.ClockOut != nil {
		dto.ClockOut = r.ClockOut.Format("2006-01-02 15:04:05")
	}
	if r.DurationHours != nil {
		s := r.DurationHours.String()
		dto.DurationHours = &s
	}
	if r.WorkedHours != nil {
		s := r.WorkedHours.String()
		dto.WorkedHours = &s
	}
	return dto
}
