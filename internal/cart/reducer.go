package cart

import "storefront/internal/domain"

// Action is a cart transition. The concrete types below are the only actions.
type Action interface {
	action()
}

// AddItem adds one unit of Item, appending a new line when absent.
type AddItem struct {
	Item domain.Item
}

// RemoveItem drops the line for URL.
type RemoveItem struct {
	URL string
}

// UpdateQuantity sets the quantity of the line for URL.
type UpdateQuantity struct {
	URL      string
	Quantity int
}

// ClearCart empties the cart.
type ClearCart struct{}

// LoadCart replaces the cart with previously persisted lines.
type LoadCart struct {
	Lines []domain.CartLine
}

func (AddItem) action()        {}
func (RemoveItem) action()     {}
func (UpdateQuantity) action() {}
func (ClearCart) action()      {}
func (LoadCart) action()       {}

// Reducer applies actions to states without side effects.
type Reducer struct {
	MaxQuantity int
}

// NewReducer returns a Reducer capping lines at maxQuantity, or at
// domain.DefaultMaxQuantity when maxQuantity is not positive.
func NewReducer(maxQuantity int) Reducer {
	if maxQuantity <= 0 {
		maxQuantity = domain.DefaultMaxQuantity
	}
	return Reducer{MaxQuantity: maxQuantity}
}

// Reduce returns the state that results from applying action to state. The
// input state is never modified.
func (r Reducer) Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddItem:
		return r.add(state, a.Item)
	case RemoveItem:
		return remove(state, a.URL)
	case UpdateQuantity:
		return r.updateQuantity(state, a.URL, a.Quantity)
	case ClearCart:
		return EmptyState()
	case LoadCart:
		lines := make([]domain.CartLine, len(a.Lines))
		copy(lines, a.Lines)
		return State{lines: lines}
	default:
		return state
	}
}

// add increments an existing line, clamped at MaxQuantity.
func (r Reducer) add(state State, item domain.Item) State {
	i := state.indexOf(item.URL)
	if i < 0 {
		lines := make([]domain.CartLine, len(state.lines), len(state.lines)+1)
		copy(lines, state.lines)
		return State{lines: append(lines, domain.CartLine{Item: item, Quantity: 1})}
	}
	qty := min(state.lines[i].Quantity+1, r.MaxQuantity)
	return withQuantity(state, i, qty)
}

// updateQuantity rejects quantities above MaxQuantity instead of clamping them.
func (r Reducer) updateQuantity(state State, url string, quantity int) State {
	if quantity <= 0 {
		return remove(state, url)
	}
	if quantity > r.MaxQuantity {
		return state
	}
	i := state.indexOf(url)
	if i < 0 {
		return state
	}
	return withQuantity(state, i, quantity)
}

func remove(state State, url string) State {
	i := state.indexOf(url)
	if i < 0 {
		return state
	}
	lines := make([]domain.CartLine, 0, len(state.lines)-1)
	lines = append(lines, state.lines[:i]...)
	lines = append(lines, state.lines[i+1:]...)
	return State{lines: lines}
}

func withQuantity(state State, i, quantity int) State {
	lines := make([]domain.CartLine, len(state.lines))
	copy(lines, state.lines)
	lines[i].Quantity = quantity
	return State{lines: lines}
}
