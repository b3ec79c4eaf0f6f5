package model

// NotificationType tags a session notification.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is a transient, dismissible session message. At most one is
// live at a time; the next event replaces it.
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// Installation records a committed build. Created exactly once per
// successful transaction and never mutated or removed.
type Installation struct {
	ID         int64        `json:"id"`
	Site       EnrichedSite `json:"site"`
	Facility   FacilitySpec `json:"facility"`
	DayBuilt   int          `json:"day_built"`
	PointScore float64      `json:"point_score"`
}

// SessionState is a read-only snapshot of the simulation state.
type SessionState struct {
	Budget                      int            `json:"budget"`
	Day                         int            `json:"day"`
	CumulativeScore             float64        `json:"cumulative_score"`
	CumulativeEnvironmentalCost float64        `json:"cumulative_environmental_cost"`
	Installations               []Installation `json:"installations"`
	SelectedSite                *EnrichedSite  `json:"selected_site,omitempty"`
	RecentlyViewed              []EnrichedSite `json:"recently_viewed"`
	Notification                *Notification  `json:"notification,omitempty"`
}
