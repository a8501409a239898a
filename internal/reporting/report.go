// Package reporting is the read-only report and backup collaborator. It
// consumes state snapshots and never mutates them; generation may be slow
// without blocking the core.
package reporting

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/template"
	"time"

	"github.com/example/hostel-desk/internal/application"
)

// ReportHistoryLimit caps the history table in generated reports.
const ReportHistoryLimit = 50

// GuestRow is one line of the active-guest table.
type GuestRow struct {
	RoomNumber int
	BedID      int
	GuestName  string
	Phone      string
	CheckIn    string
	CheckOut   string
	Total      int
}

// HistoryRow is one line of the completed-stay table.
type HistoryRow struct {
	Date       string
	GuestName  string
	RoomAndBed string
	Nights     int
	Revenue    int
}

// RoomRow is one line of the per-room occupancy table.
type RoomRow struct {
	RoomNumber int
	TotalBeds  int
	Occupied   int
	Free       int
	Percent    int
}

// Report is the assembled occupancy report, ready to render.
type Report struct {
	GeneratedAt   string
	TotalBeds     int
	OccupiedBeds  int
	OccupancyRate int
	ActiveGuests  []GuestRow
	History       []HistoryRow
	Rooms         []RoomRow
	TotalRevenue  int
}

// BuildReport assembles a report from a state snapshot as of the given time.
// Active-guest totals use the planned stay length; the history table is capped
// at the 50 most recent entries while the revenue total spans all of history.
func BuildReport(state application.State, asOf time.Time) Report {
	report := Report{GeneratedAt: asOf.Format("02.01.2006")}

	for _, room := range state.Rooms {
		row := RoomRow{RoomNumber: room.Number, TotalBeds: len(room.Beds)}
		for _, bed := range room.Beds {
			if bed.Occupied {
				row.Occupied++
			}
		}
		row.Free = row.TotalBeds - row.Occupied
		if row.TotalBeds > 0 {
			row.Percent = int(math.Round(float64(row.Occupied) / float64(row.TotalBeds) * 100))
		}
		report.Rooms = append(report.Rooms, row)
		report.TotalBeds += row.TotalBeds
		report.OccupiedBeds += row.Occupied
	}
	if report.TotalBeds > 0 {
		report.OccupancyRate = int(math.Round(float64(report.OccupiedBeds) / float64(report.TotalBeds) * 100))
	}

	active := make([]application.Booking, 0, len(state.Bookings))
	for _, b := range state.Bookings {
		if !b.CheckedOut {
			active = append(active, b)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CheckOut.Before(active[j].CheckOut)
	})
	for _, b := range active {
		nights := application.PlannedNights(b.CheckIn, b.CheckOut)
		phone := b.Phone
		if phone == "" {
			phone = "-"
		}
		report.ActiveGuests = append(report.ActiveGuests, GuestRow{
			RoomNumber: b.RoomNumber,
			BedID:      b.BedID,
			GuestName:  b.GuestName,
			Phone:      phone,
			CheckIn:    b.CheckIn.Format("02.01.2006"),
			CheckOut:   b.CheckOut.Format("02.01.2006"),
			Total:      nights * b.PricePerNight,
		})
	}

	for i, entry := range state.History {
		report.TotalRevenue += entry.TotalPrice
		if i >= ReportHistoryLimit {
			continue
		}
		report.History = append(report.History, HistoryRow{
			Date:       entry.CheckIn.Format("02.01.2006"),
			GuestName:  entry.GuestName,
			RoomAndBed: fmt.Sprintf("%d/%d", entry.RoomNumber, entry.BedID),
			Nights:     entry.Nights,
			Revenue:    entry.TotalPrice,
		})
	}

	return report
}

var reportTemplate = template.Must(template.New("report").Parse(`HOSTEL REPORT
Generated: {{.GeneratedAt}}
Current occupancy: {{.OccupancyRate}}% ({{.OccupiedBeds}}/{{.TotalBeds}} beds)

ACTIVE GUESTS
{{- if .ActiveGuests}}
Room | Bed | Guest | Phone | Check-in | Check-out | Total
{{- range .ActiveGuests}}
{{.RoomNumber}} | {{.BedID}} | {{.GuestName}} | {{.Phone}} | {{.CheckIn}} | {{.CheckOut}} | {{.Total}}
{{- end}}
{{- else}}
No active guests
{{- end}}

STAY HISTORY
{{- if .History}}
Date | Guest | Room/Bed | Nights | Revenue
{{- range .History}}
{{.Date}} | {{.GuestName}} | {{.RoomAndBed}} | {{.Nights}} | {{.Revenue}}
{{- end}}
{{- else}}
History is empty
{{- end}}

ROOM STATUS
Room | Beds | Occupied | Free | Occupancy
{{- range .Rooms}}
{{.RoomNumber}} | {{.TotalBeds}} | {{.Occupied}} | {{.Free}} | {{.Percent}}%
{{- end}}

Total revenue (all history): {{.TotalRevenue}}
`))

// Render writes the report as a plain-text document.
func (r Report) Render(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
