package domain

// LoadingProgress describes how far the week-windowed backfill has advanced.
// It is mutated only by the sync orchestrator.
type LoadingProgress struct {
	WeeksLoaded   int    `json:"weeks_loaded"`
	TotalWeeks    int    `json:"total_weeks"`
	CurrentWeek   string `json:"current_week"`
	IsLoadingWeek bool   `json:"is_loading_week"`
	HasMoreData   bool   `json:"has_more_data"`
}

// UnifiedSnapshot is the complete in-memory aggregate exposed to subscribers.
// Subscribers receive copies and must treat them as read-only; the orchestrator
// replaces fields wholesale, never partially.
type UnifiedSnapshot struct {
	Emails    []EmailView     `json:"emails"`
	Contacts  []ContactView   `json:"contacts"`
	Meetings  []MeetingView   `json:"meetings"`
	Folders   []FolderView    `json:"folders"`
	IsLoading bool            `json:"is_loading"`
	Progress  LoadingProgress `json:"progress"`
}

// Clone returns a copy whose collection slices are independent of the
// original, so a subscriber can hold onto it across further sync cycles.
func (s UnifiedSnapshot) Clone() UnifiedSnapshot {
	out := s
	out.Emails = append([]EmailView(nil), s.Emails...)
	out.Contacts = append([]ContactView(nil), s.Contacts...)
	out.Folders = append([]FolderView(nil), s.Folders...)
	out.Meetings = make([]MeetingView, len(s.Meetings))
	for i, m := range s.Meetings {
		m.Attendees = append([]string(nil), m.Attendees...)
		out.Meetings[i] = m
	}
	return out
}
