package remote

// EventRecord is the wire-format shape of a listing item, pre-mapping.
// Timestamps arrive as ISO-8601 strings and may be absent; the service
// sends an empty string in that case.
type EventRecord struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	StartedAt string `json:"started_at,omitempty"`
	EndedAt   string `json:"ended_at,omitempty"`
	Location  string `json:"location,omitempty"`
	Organizer string `json:"organizer,omitempty"`
	Accepted  int    `json:"accepted"`
	Waiting   int    `json:"waiting"`
	Limit     *int   `json:"limit,omitempty"`
	URL       string `json:"url"`
}

// PersonRecord is the wire-format shape of a subject directory entry.
type PersonRecord struct {
	ID          int64  `json:"id"`
	Nickname    string `json:"nickname"`
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ProfileURL  string `json:"profile_url"`
}

// Order is the sort direction accepted by the listing endpoint.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Valid returns true if this is a recognized order.
func (o Order) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}
