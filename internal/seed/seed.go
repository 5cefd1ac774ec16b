package seed

import (
	"context"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

type CartWriter interface {
	Add(ctx context.Context, item domain.Item) cart.State
	SetQuantity(ctx context.Context, url string, quantity int) cart.State
}

type lineSeed struct {
	Item     domain.Item
	Quantity int
}

var demoLines = []lineSeed{
	{
		Item: domain.Item{
			URL:           "https://swapi-api.hbtn.io/api/starships/12/",
			Name:          "X-wing",
			Model:         "T-65 X-wing",
			Manufacturer:  "Incom Corporation",
			CostInCredits: "149999",
			StarshipClass: "Starfighter",
		},
		Quantity: 2,
	},
	{
		Item: domain.Item{
			URL:           "https://swapi-api.hbtn.io/api/starships/10/",
			Name:          "Millennium Falcon",
			Model:         "YT-1300 light freighter",
			Manufacturer:  "Corellian Engineering Corporation",
			CostInCredits: "100000",
			StarshipClass: "Light freighter",
		},
		Quantity: 1,
	},
	{
		Item: domain.Item{
			URL:           "https://swapi-api.hbtn.io/api/starships/9/",
			Name:          "Death Star",
			Model:         "DS-1 Orbital Battle Station",
			Manufacturer:  "Imperial Department of Military Research, Sienar Fleet Systems",
			CostInCredits: "unknown",
			StarshipClass: "Deep Space Mobile Battlestation",
		},
		Quantity: 1,
	},
}

// Apply fills the cart with demo lines for manual testing. Running it again
// resets those lines to the same quantities.
func Apply(ctx context.Context, w CartWriter) error {
	for _, l := range demoLines {
		w.Add(ctx, l.Item)
		state := w.SetQuantity(ctx, l.Item.URL, l.Quantity)
		if got, ok := state.Find(l.Item.URL); !ok || got.Quantity != l.Quantity {
			return fmt.Errorf("seed %s: quantity %d not accepted", l.Item.Name, l.Quantity)
		}
	}
	return nil
}
