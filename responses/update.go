package responses

// Update - information about a site structure update
type Update struct {
	// did it work or not
	Success bool `json:"success"`
	// this is for humans
	ErrorMessage string `json:"errorMessage,omitempty"`
	// Restored the site structure was restored from a snapshot
	Restored bool  `json:"restored,omitempty"`
	Stats    Stats `json:"stats"`
}

type Stats struct {
	NumberOfSites    int `json:"numberOfSites"`
	NumberOfSections int `json:"numberOfSections"`
	// seconds
	CMSRuntime float64 `json:"cmsRuntime"`
	// seconds
	OwnRuntime float64 `json:"ownRuntime"`
}
