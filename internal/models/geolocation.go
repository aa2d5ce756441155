package models

// Geolocation represents one lat/lng sample for a zip code prefix. One prefix
// maps to many samples; the dataset is deliberately not deduplicated, so joins
// on the prefix fan out.
type Geolocation struct {
	ZipCodePrefix string  `json:"geolocation_zip_code_prefix"`
	Lat           float64 `json:"geolocation_lat"`
	Lng           float64 `json:"geolocation_lng"`
	City          string  `json:"geolocation_city"`
	State         string  `json:"geolocation_state"`
}

// GeolocationSet wraps a slice of geolocation samples with lookup methods
type GeolocationSet struct {
	Locations []Geolocation
}

// NewGeolocationSet creates a new GeolocationSet from a slice
func NewGeolocationSet(locations []Geolocation) *GeolocationSet {
	return &GeolocationSet{Locations: locations}
}

// Len returns the number of samples
func (gs *GeolocationSet) Len() int {
	return len(gs.Locations)
}

// ByZipPrefix groups samples by zip code prefix, preserving source order
// within a group so the fan-out order is stable.
func (gs *GeolocationSet) ByZipPrefix() map[string][]Geolocation {
	byPrefix := make(map[string][]Geolocation)
	for _, g := range gs.Locations {
		byPrefix[g.ZipCodePrefix] = append(byPrefix[g.ZipCodePrefix], g)
	}
	return byPrefix
}
