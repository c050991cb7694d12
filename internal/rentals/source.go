package rentals

import "context"

// Source provides the list of active rentals.
// HTTPSource and FileSource implement this interface. Tests can provide mock
// implementations.
type Source interface {
	ListActive(ctx context.Context) ([]ActiveRental, error)
}
