package get_slot_calendar

// Slot один слот в сетке дня
type Slot struct {
	Time     string `json:"time"` // "14:00"
	Disabled bool   `json:"disabled"`
}

// Day день календаря со слотами
type Day struct {
	Date    string `json:"date"` // "2026-03-10"
	IsToday bool   `json:"isToday"`
	Slots   []Slot `json:"slots"`
}

// GetSlotCalendarResponse сетка слотов на ближайшие дни
type GetSlotCalendarResponse struct {
	Days []Day `json:"days"`
}
