package ipapi

// LookupAPIResponse is the ip-api.com JSON payload for the caller's address
type LookupAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
	Query    string  `json:"query"`
}
