package dto

// StatsResponse summarizes the contents of the store for the /stats endpoint.
type StatsResponse struct {
	People            int64      `json:"people"`
	Reminders         int64      `json:"reminders"`
	MediaAttachments  int64      `json:"media_attachments"`
	SeenNotifications int64      `json:"seen_notifications"`
	LeadTimeHours     *LeadTimes `json:"lead_time_hours,omitempty"`
}

// LeadTimes describes the distribution of request-to-due deltas in hours
// across the stored reminders.
type LeadTimes struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}
