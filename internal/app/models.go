package app

type healthResponse struct {
	OK        bool     `json:"ok"`
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}

type slotsResponse struct {
	OK     bool     `json:"ok"`
	Slots  []string `json:"slots"`
	Cached bool     `json:"cached"`
}

type bookResponse struct {
	OK      bool   `json:"ok"`
	EventID string `json:"eventId"`
	// MeetLink is null when no conference was provisioned.
	MeetLink *string `json:"meetLink"`
	Message  string  `json:"message"`
}

type errorResponse struct {
	OK         bool   `json:"ok"`
	Error      string `json:"error"`
	RetryAfter *int   `json:"retryAfter,omitempty"`
}

type envCheck struct {
	HasGoogleClientID     bool   `json:"has_google_client_id"`
	HasGoogleClientSecret bool   `json:"has_google_client_secret"`
	HasGoogleRefreshToken bool   `json:"has_google_refresh_token"`
	HasCalendarID         bool   `json:"has_calendar_id"`
	Timezone              string `json:"timezone"`
	WeekdayMorning        string `json:"weekday_morning"`
	WeekdayAfternoon      string `json:"weekday_afternoon"`
	SaturdayHours         string `json:"saturday_hours"`
	AllowedOrigins        string `json:"allowed_origins"`
	SharedStore           bool   `json:"shared_store"`
	Ledger                bool   `json:"ledger"`
}

type debugResponse struct {
	OK       bool     `json:"ok"`
	EnvCheck envCheck `json:"env_check"`
}

type ledgerEntry struct {
	EventID   string  `json:"eventId"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Time      string  `json:"time"`
	MeetLink  *string `json:"meetLink"`
	CreatedAt string  `json:"createdAt"`
}
