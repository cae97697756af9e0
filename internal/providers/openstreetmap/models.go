package openstreetmap

type ReverseAPIResponse struct {
	PlaceId     int     `json:"place_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Addresstype string  `json:"addresstype"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`

	// Error is set instead of the fields above when nothing was found
	Error string `json:"error"`
}

type Address struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	County      string `json:"county"`
	State       string `json:"state"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// Locality returns the most specific settlement name in the address
func (a Address) Locality() string {
	switch {
	case a.City != "":
		return a.City
	case a.Town != "":
		return a.Town
	case a.Village != "":
		return a.Village
	default:
		return a.County
	}
}
