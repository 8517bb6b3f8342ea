package memstore

import "github.com/tu-usuario/catalogo-api/internal/domain/repository"

// TxRunner ejecuta el callback contra las vistas del store en memoria.
// Cada operación del store ya es atómica bajo su mutex; el runner existe para
// que el caso de uso sea el mismo contra memoria o PostgreSQL.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con los repositorios del store.
func (r *TxRunner) Run(fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.StockHistoryRepository,
) error) error {
	return fn(r.store.Products(), r.store.StockHistory())
}
