package domain

// Item is a catalog entry as returned by the catalog API. URL is its identity.
type Item struct {
	URL              string `json:"url"`
	Name             string `json:"name"`
	Model            string `json:"model"`
	Manufacturer     string `json:"manufacturer"`
	CostInCredits    string `json:"cost_in_credits"`
	Image            string `json:"image,omitempty"`
	StarshipClass    string `json:"starship_class,omitempty"`
	Crew             string `json:"crew,omitempty"`
	Passengers       string `json:"passengers,omitempty"`
	HyperdriveRating string `json:"hyperdrive_rating,omitempty"`
}
