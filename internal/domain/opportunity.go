package domain

// Opportunity is a single youth-activity catalog record. Field names follow
// the catalog JSON produced by the ingestion side; the engine treats records
// as read-only.
type Opportunity struct {
	OrganizationName    string      `json:"organization_name"`
	ProgramDescription  string      `json:"program_description"`
	ActivityName        string      `json:"activity_name"`
	ActivityDescription string      `json:"activity_description"`
	Location            Location    `json:"location"`
	AgeRange            string      `json:"age_range"`
	Dates               DateRange   `json:"dates"`
	Schedule            Schedule    `json:"schedule"`
	Cost                string      `json:"cost"`
	URL                 string      `json:"url"`
	Tags                Tags        `json:"tags"`
	LastUpdated         LastUpdated `json:"last_updated"`
}

// Location describes where an activity takes place.
type Location struct {
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Coordinates *GeoPoint `json:"coordinates,omitempty"`
}

// GeoPoint is a GeoJSON-style point: [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// DateRange holds ISO dates (YYYY-MM-DD); either side may be empty.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Schedule holds weekday names and a free-form time range.
type Schedule struct {
	Days  []string `json:"days"`
	Times string   `json:"times"`
}

// Tags groups the classification labels attached by ingestion.
type Tags struct {
	Categories    []string `json:"categories"`
	Demographics  []string `json:"demographics"`
	Accessibility []string `json:"accessibility"`
	ProgramType   []string `json:"program_type"`
}

// LastUpdated records when and from where the record was last refreshed.
type LastUpdated struct {
	Date      string `json:"date"` // YYYY-MM-DD
	SourceURL string `json:"source_url"`
}

// Key returns the natural identity of a record. The loader dedupes on it;
// the ingestion side upserts on it.
func (o *Opportunity) Key() OpportunityKey {
	return OpportunityKey{
		OrganizationName: o.OrganizationName,
		ActivityName:     o.ActivityName,
	}
}

// OpportunityKey is the (organization, activity) pair identifying a record.
type OpportunityKey struct {
	OrganizationName string
	ActivityName     string
}
