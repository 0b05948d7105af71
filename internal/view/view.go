// Package view builds the read models of the booking pages from plain field
// and slot lists: the field directory with its free-today counts, the slot
// picker of a single field and the owner's agenda.
package view

import (
	"sort"
	"strings"

	"canchas-backend/internal/calendar"
	"canchas-backend/internal/model"
)

// Per-slot actions offered to the owner.
const (
	ActionDelete  = "eliminar"
	ActionConfirm = "confirmar"
	ActionCancel  = "cancelar"
	ActionRelease = "liberar"
)

// FieldSummary is a directory entry.
type FieldSummary struct {
	model.Field
	FreeToday int `json:"turnos_libres_hoy"`
}

// PickerSlot is a slot as shown to customers.
type PickerSlot struct {
	model.Slot
	Bookable bool `json:"reservable"`
}

// AgendaSlot is a slot as shown to its owner.
type AgendaSlot struct {
	model.Slot
	Actions []string `json:"acciones"`
}

// AgendaDay groups the slots of one calendar day.
type AgendaDay struct {
	Date  string       `json:"fecha"`
	Label string       `json:"etiqueta"`
	Slots []AgendaSlot `json:"turnos"`
}

// FreeToday counts the available slots of fieldID dated today.
func FreeToday(slots []model.Slot, fieldID int64, today string) int {
	n := 0
	for _, s := range slots {
		if s.FieldID == fieldID && s.Status == model.StatusAvailable && calendar.SameDay(s.Date, today) {
			n++
		}
	}
	return n
}

// Directory returns the fields whose name contains query, ignoring case,
// each with its free-today count.
func Directory(fields []model.Field, slots []model.Slot, today, query string) []FieldSummary {
	query = strings.ToLower(strings.TrimSpace(query))

	free := make(map[int64]int, len(fields))
	for _, s := range slots {
		if s.Status == model.StatusAvailable && calendar.SameDay(s.Date, today) {
			free[s.FieldID]++
		}
	}

	out := make([]FieldSummary, 0, len(fields))
	for _, f := range fields {
		if query != "" && !strings.Contains(strings.ToLower(f.Name), query) {
			continue
		}
		out = append(out, FieldSummary{Field: f, FreeToday: free[f.ID]})
	}
	return out
}

// TodayPicker returns today's slots ordered by time of day, midnight last.
func TodayPicker(slots []model.Slot, today string) []PickerSlot {
	out := make([]PickerSlot, 0)
	for _, s := range slots {
		if calendar.SameDay(s.Date, today) {
			out = append(out, PickerSlot{Slot: s, Bookable: s.Status == model.StatusAvailable})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return calendar.TimeLess(out[i].Time, out[j].Time) })
	return out
}

// Agenda groups slots by day, newest day first, each day ordered by time.
func Agenda(slots []model.Slot) []AgendaDay {
	byDate := make(map[string][]AgendaSlot)
	for _, s := range slots {
		date, err := calendar.NormalizeDate(s.Date)
		if err != nil {
			date = s.Date
		}
		byDate[date] = append(byDate[date], AgendaSlot{Slot: s, Actions: Actions(s.Status)})
	}

	days := make([]AgendaDay, 0, len(byDate))
	for date, daySlots := range byDate {
		sort.SliceStable(daySlots, func(i, j int) bool { return calendar.TimeLess(daySlots[i].Time, daySlots[j].Time) })
		days = append(days, AgendaDay{Date: date, Label: calendar.LongLabel(date), Slots: daySlots})
	}
	// YYYY-MM-DD sorts chronologically as a string.
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

// Actions lists what the owner can do with a slot in the given status.
func Actions(status model.SlotStatus) []string {
	switch status {
	case model.StatusAvailable:
		return []string{ActionDelete}
	case model.StatusPending:
		return []string{ActionConfirm, ActionCancel}
	case model.StatusConfirmed:
		return []string{ActionRelease}
	}
	return []string{}
}
