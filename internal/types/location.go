package types

// Place contains human-readable location metadata
type Place struct {
	Name        string `json:"name"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

func (p Place) String() string {
	switch {
	case p.Name != "" && p.Country != "":
		return p.Name + ", " + p.Country
	case p.Name != "":
		return p.Name
	default:
		return p.Country
	}
}
