package multiday

// Config tunes how legacy business records are adapted and how round-trip
// pairs are detected and staffed.
type Config struct {
	// OvernightMarkers are substrings of business IDs identifying the
	// overnight round-trip routes that use the fixed two-day template.
	OvernightMarkers []string `json:"overnight_markers"`
	// OutboundSuffix and ReturnSuffix are the display-name suffixes
	// stripped to obtain a pair's base name.
	OutboundSuffix string `json:"outbound_suffix"`
	ReturnSuffix   string `json:"return_suffix"`
	// OddTeam departs on odd days of the month, EvenTeam on even days,
	// when no rotation rule is configured for a pair.
	OddTeam  string `json:"odd_team"`
	EvenTeam string `json:"even_team"`
	// DefaultRequiredPeople staffs a pair when the business does not say.
	DefaultRequiredPeople int `json:"default_required_people"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if len(c.OvernightMarkers) == 0 {
		c.OvernightMarkers = []string{"overnight"}
	}
	if c.OutboundSuffix == "" {
		c.OutboundSuffix = " (outbound)"
	}
	if c.ReturnSuffix == "" {
		c.ReturnSuffix = " (return)"
	}
	if c.OddTeam == "" {
		c.OddTeam = "A"
	}
	if c.EvenTeam == "" {
		c.EvenTeam = "B"
	}
	if c.DefaultRequiredPeople <= 0 {
		c.DefaultRequiredPeople = 1
	}
}
