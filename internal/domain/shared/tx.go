package shared

import "context"

// TransactionManager runs a function inside one storage transaction. The
// function receives a context carrying the transaction; repository calls made
// with that context join it, and a returned error rolls every write back.
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
