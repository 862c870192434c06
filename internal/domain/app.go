package domain

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

type AppMetadata struct {
	Name          string   `json:"name"`
	Icon          string   `json:"icon"`
	Developer     string   `json:"developer"`
	Description   string   `json:"description"`
	AverageRating float64  `json:"averageRating"` // store-wide, independent of the fetched sample
	RatingCount   int      `json:"ratingCount"`
	Price         string   `json:"price"`
	Genre         string   `json:"genre"`
	StoreURL      string   `json:"storeUrl"`
	Platform      Platform `json:"platform"`
	Country       string   `json:"country"`
}

// StoreStats are the global figures the silent-majority comparison needs.
type StoreStats struct {
	AverageRating float64
	RatingCount   int
}

func (m AppMetadata) Stats() StoreStats {
	return StoreStats{AverageRating: m.AverageRating, RatingCount: m.RatingCount}
}
