package cart

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func ship(id int, cost string) domain.Item {
	return domain.Item{
		URL:           fmt.Sprintf("https://swapi.dev/api/starships/%d/", id),
		Name:          fmt.Sprintf("Ship %d", id),
		CostInCredits: cost,
	}
}

func reduceAll(r Reducer, actions ...Action) State {
	s := EmptyState()
	for _, a := range actions {
		s = r.Reduce(s, a)
	}
	return s
}

func TestReduce_AddAppendsNewLines(t *testing.T) {
	r := NewReducer(5)
	s := reduceAll(r, AddItem{Item: ship(1, "10")}, AddItem{Item: ship(2, "20")}, AddItem{Item: ship(3, "30")})

	lines := s.Lines()
	require.Len(t, lines, 3)
	for i, line := range lines {
		assert.Equal(t, ship(i+1, "").URL, line.Item.URL)
		assert.Equal(t, 1, line.Quantity)
	}
}

func TestReduce_AddIncrementsAndClamps(t *testing.T) {
	r := NewReducer(5)
	s := EmptyState()
	for i := 1; i <= 5; i++ {
		s = r.Reduce(s, AddItem{Item: ship(1, "10")})
		line, ok := s.Find(ship(1, "").URL)
		require.True(t, ok)
		assert.Equal(t, i, line.Quantity)
	}

	before := s
	s = r.Reduce(s, AddItem{Item: ship(1, "10")})
	line, _ := s.Find(ship(1, "").URL)
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, s.Equal(before))
}

func TestReduce_AddKeepsPosition(t *testing.T) {
	r := NewReducer(5)
	s := reduceAll(r, AddItem{Item: ship(1, "")}, AddItem{Item: ship(2, "")}, AddItem{Item: ship(1, "")})

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, ship(1, "").URL, lines[0].Item.URL)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestReduce_Remove(t *testing.T) {
	r := NewReducer(5)
	s := reduceAll(r, AddItem{Item: ship(1, "")}, AddItem{Item: ship(2, "")}, AddItem{Item: ship(3, "")})

	s = r.Reduce(s, RemoveItem{URL: ship(2, "").URL})
	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, ship(1, "").URL, lines[0].Item.URL)
	assert.Equal(t, ship(3, "").URL, lines[1].Item.URL)

	same := r.Reduce(s, RemoveItem{URL: "missing"})
	assert.True(t, same.Equal(s))
}

func TestReduce_UpdateQuantity(t *testing.T) {
	r := NewReducer(5)
	base := reduceAll(r, AddItem{Item: ship(1, "")}, AddItem{Item: ship(2, "")})
	url := ship(1, "").URL

	t.Run("sets in place", func(t *testing.T) {
		s := r.Reduce(base, UpdateQuantity{URL: url, Quantity: 4})
		lines := s.Lines()
		assert.Equal(t, url, lines[0].Item.URL)
		assert.Equal(t, 4, lines[0].Quantity)
	})
	t.Run("max is accepted", func(t *testing.T) {
		s := r.Reduce(base, UpdateQuantity{URL: url, Quantity: 5})
		line, _ := s.Find(url)
		assert.Equal(t, 5, line.Quantity)
	})
	t.Run("above max is rejected", func(t *testing.T) {
		for q := 1; q <= 5; q++ {
			prior := r.Reduce(base, UpdateQuantity{URL: url, Quantity: q})
			s := r.Reduce(prior, UpdateQuantity{URL: url, Quantity: 6})
			line, _ := s.Find(url)
			assert.Equal(t, q, line.Quantity)
			assert.True(t, s.Equal(prior))
		}
	})
	t.Run("zero removes", func(t *testing.T) {
		s := r.Reduce(base, UpdateQuantity{URL: url, Quantity: 0})
		_, ok := s.Find(url)
		assert.False(t, ok)
		assert.Equal(t, 1, s.Len())
	})
	t.Run("negative removes", func(t *testing.T) {
		s := r.Reduce(base, UpdateQuantity{URL: url, Quantity: -3})
		_, ok := s.Find(url)
		assert.False(t, ok)
	})
	t.Run("unknown url is a no-op", func(t *testing.T) {
		for _, q := range []int{-1, 0, 1, 5, 6} {
			s := r.Reduce(base, UpdateQuantity{URL: "missing", Quantity: q})
			assert.True(t, s.Equal(base), "quantity %d", q)
		}
	})
}

func TestReduce_ClearAndLoad(t *testing.T) {
	r := NewReducer(5)
	s := reduceAll(r, AddItem{Item: ship(1, "")}, ClearCart{})
	assert.True(t, s.IsEmpty())

	lines := []domain.CartLine{{Item: ship(7, "1"), Quantity: 3}}
	s = r.Reduce(s, LoadCart{Lines: lines})
	lines[0].Quantity = 1
	line, ok := s.Find(ship(7, "").URL)
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity, "loaded state is independent of the input slice")
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	r := NewReducer(5)
	s := reduceAll(r, AddItem{Item: ship(1, "")}, AddItem{Item: ship(2, "")})
	snapshot := s.Lines()

	r.Reduce(s, AddItem{Item: ship(1, "")})
	r.Reduce(s, UpdateQuantity{URL: ship(2, "").URL, Quantity: 4})
	r.Reduce(s, RemoveItem{URL: ship(1, "").URL})
	r.Reduce(s, AddItem{Item: ship(3, "")})

	assert.Equal(t, snapshot, s.Lines())
}

func TestReduce_InvariantsHoldForRandomSequences(t *testing.T) {
	const maxQty = 5
	r := NewReducer(maxQty)
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		s := EmptyState()
		for step := 0; step < 60; step++ {
			id := rng.Intn(6)
			var a Action
			switch rng.Intn(10) {
			case 0, 1, 2, 3:
				a = AddItem{Item: ship(id, "1000")}
			case 4, 5:
				a = RemoveItem{URL: ship(id, "").URL}
			case 6, 7, 8:
				a = UpdateQuantity{URL: ship(id, "").URL, Quantity: rng.Intn(10) - 2}
			default:
				a = ClearCart{}
			}
			s = r.Reduce(s, a)

			seen := map[string]bool{}
			for _, line := range s.Lines() {
				require.False(t, seen[line.Item.URL], "duplicate line for %s", line.Item.URL)
				seen[line.Item.URL] = true
				require.GreaterOrEqual(t, line.Quantity, 1)
				require.LessOrEqual(t, line.Quantity, maxQty)
			}
		}
	}
}

func TestState_Totals(t *testing.T) {
	r := NewReducer(5)
	s := reduceAll(r,
		AddItem{Item: ship(1, "20000")}, AddItem{Item: ship(1, "20000")},
		AddItem{Item: ship(2, "unknown")}, AddItem{Item: ship(2, "unknown")}, AddItem{Item: ship(2, "unknown")},
	)
	assert.Equal(t, 5, s.TotalItemCount())
	assert.InDelta(t, 4.0, s.TotalPrice(), 1e-9)

	s = reduceAll(r, AddItem{Item: ship(3, "-100")}, AddItem{Item: ship(4, "0")}, AddItem{Item: ship(5, "")})
	assert.Equal(t, 3, s.TotalItemCount())
	assert.Equal(t, 0.0, s.TotalPrice())

	assert.Equal(t, 0, EmptyState().TotalItemCount())
	assert.Equal(t, 0.0, EmptyState().TotalPrice())
}

func TestNewReducer_DefaultMax(t *testing.T) {
	assert.Equal(t, domain.DefaultMaxQuantity, NewReducer(0).MaxQuantity)
	assert.Equal(t, 9, NewReducer(9).MaxQuantity)
}
