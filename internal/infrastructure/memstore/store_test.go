package memstore_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/catalogo-api/internal/domain"
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
	"github.com/tu-usuario/catalogo-api/internal/infrastructure/memstore"
)

func nuevoProducto(id, sku, name string) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:        id,
		SKU:       sku,
		Name:      name,
		Quantity:  5,
		Price:     decimal.RequireFromString("10.00"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProductStore_CicloCRUD(t *testing.T) {
	store := memstore.New()
	products := store.Products()

	p := nuevoProducto("id-1", "SKU-1", "Uno")
	require.NoError(t, products.Create(p))

	leido, err := products.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", leido.SKU)
	assert.True(t, leido.Price.Equal(p.Price))

	leido.Name = "Uno Renombrado"
	require.NoError(t, products.Update(leido))
	releido, err := products.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "Uno Renombrado", releido.Name)

	require.NoError(t, products.Delete("id-1"))
	_, err = products.GetByID("id-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductStore_CopiasNoAliasadas(t *testing.T) {
	store := memstore.New()
	products := store.Products()

	require.NoError(t, products.Create(nuevoProducto("id-1", "SKU-1", "Original")))

	leido, err := products.GetByID("id-1")
	require.NoError(t, err)
	leido.Name = "Mutado por el caller"

	releido, err := products.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "Original", releido.Name, "mutar la copia devuelta no toca el store")
}

func TestProductStore_SKUDuplicado(t *testing.T) {
	store := memstore.New()
	products := store.Products()

	require.NoError(t, products.Create(nuevoProducto("id-1", "SKU-1", "Uno")))
	err := products.Create(nuevoProducto("id-2", "SKU-1", "Dos"))
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)

	// El perdedor no dejó rastro.
	_, err = products.GetByID("id-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Update hacia un SKU tomado también se rechaza.
	require.NoError(t, products.Create(nuevoProducto("id-3", "SKU-3", "Tres")))
	tres, err := products.GetByID("id-3")
	require.NoError(t, err)
	tres.SKU = "SKU-1"
	assert.ErrorIs(t, products.Update(tres), domain.ErrDuplicateSKU)
}

// TestProductStore_CreacionConcurrenteMismoSKU: de N creates concurrentes con
// el mismo SKU gana exactamente uno; el índice queda con una sola fila.
func TestProductStore_CreacionConcurrenteMismoSKU(t *testing.T) {
	store := memstore.New()
	products := store.Products()

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = products.Create(nuevoProducto(fmt.Sprintf("id-%d", i), "SKU-UNICO", fmt.Sprintf("P%d", i)))
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
		} else {
			assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
		}
	}
	assert.Equal(t, 1, exitos, "exactamente un create debe ganar")

	todos, err := products.ListAll(query.ProductFilter{}, query.Sort{})
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestProductStore_CategoriaInexistente(t *testing.T) {
	store := memstore.New()
	products := store.Products()

	p := nuevoProducto("id-1", "SKU-1", "Uno")
	p.CategoryID = "cat-fantasma"
	assert.ErrorIs(t, products.Create(p), domain.ErrCategoryNotFound)
}

func TestCategoryStore_NombreDuplicado(t *testing.T) {
	store := memstore.New()
	categories := store.Categories()

	require.NoError(t, categories.Create(&entity.Category{ID: "cat-1", Name: "Hogar"}))
	err := categories.Create(&entity.Category{ID: "cat-2", Name: "Hogar"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	// La unicidad es sensible a mayúsculas; la búsqueda no.
	require.NoError(t, categories.Create(&entity.Category{ID: "cat-3", Name: "hogar"}))
	items, total, err := categories.List(query.CategoryFilter{Name: "HOGAR"}, query.Sort{}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
}

// TestCategoryStore_BorradoConProductos: una categoría referenciada no se
// borra; tras quitar la referencia, sí.
func TestCategoryStore_BorradoConProductos(t *testing.T) {
	store := memstore.New()
	products := store.Products()
	categories := store.Categories()

	require.NoError(t, categories.Create(&entity.Category{ID: "cat-1", Name: "Hogar"}))
	p := nuevoProducto("id-1", "SKU-1", "Uno")
	p.CategoryID = "cat-1"
	require.NoError(t, products.Create(p))

	assert.ErrorIs(t, categories.Delete("cat-1"), domain.ErrCategoryInUse)

	// Categoría y producto siguen intactos.
	_, err := categories.GetByID("cat-1")
	require.NoError(t, err)
	count, err := products.CountByCategory("cat-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Al des-referenciarla, el borrado procede.
	p2, err := products.GetByID("id-1")
	require.NoError(t, err)
	p2.CategoryID = ""
	require.NoError(t, products.Update(p2))
	assert.NoError(t, categories.Delete("cat-1"))
}

// TestCategoryStore_BorradoContraCreateConcurrente: el borrado de la categoría
// y los creates de productos que la asignan compiten; nunca queda un producto
// apuntando a una categoría borrada.
func TestCategoryStore_BorradoContraCreateConcurrente(t *testing.T) {
	store := memstore.New()
	products := store.Products()
	categories := store.Categories()

	require.NoError(t, categories.Create(&entity.Category{ID: "cat-1", Name: "Hogar"}))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := nuevoProducto(fmt.Sprintf("id-%d", i), fmt.Sprintf("SKU-%d", i), "P")
			p.CategoryID = "cat-1"
			_ = products.Create(p)
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = categories.Delete("cat-1")
		}()
	}
	wg.Wait()

	_, errCat := categories.GetByID("cat-1")
	todos, err := products.ListAll(query.ProductFilter{}, query.Sort{})
	require.NoError(t, err)
	for _, p := range todos {
		if p.CategoryID != "" {
			assert.NoError(t, errCat,
				"hay productos apuntando a cat-1: la categoría debe seguir existiendo")
		}
	}
}

func TestProductStore_CountByCategoryTrasActualizaciones(t *testing.T) {
	store := memstore.New()
	products := store.Products()
	categories := store.Categories()

	require.NoError(t, categories.Create(&entity.Category{ID: "cat-1", Name: "A"}))
	require.NoError(t, categories.Create(&entity.Category{ID: "cat-2", Name: "B"}))

	p := nuevoProducto("id-1", "SKU-1", "Uno")
	p.CategoryID = "cat-1"
	require.NoError(t, products.Create(p))

	// Mover el producto de categoría ajusta ambos conteos.
	p2, err := products.GetByID("id-1")
	require.NoError(t, err)
	p2.CategoryID = "cat-2"
	require.NoError(t, products.Update(p2))

	c1, _ := products.CountByCategory("cat-1")
	c2, _ := products.CountByCategory("cat-2")
	assert.Equal(t, 0, c1)
	assert.Equal(t, 1, c2)

	// Borrar el producto libera el conteo.
	require.NoError(t, products.Delete("id-1"))
	c2, _ = products.CountByCategory("cat-2")
	assert.Equal(t, 0, c2)
}

// TestProductStore_PaginacionCompleta: 25 productos, tamaño 10 -> páginas de
// 10, 10 y 5 sin solaparse, cubriendo los 25 exactamente una vez.
func TestProductStore_PaginacionCompleta(t *testing.T) {
	store := memstore.New()
	products := store.Products()

	for i := 0; i < 25; i++ {
		require.NoError(t, products.Create(nuevoProducto(
			fmt.Sprintf("id-%02d", i), fmt.Sprintf("SKU-%02d", i), fmt.Sprintf("Producto %02d", i))))
	}

	vistos := make(map[string]bool)
	esperados := []int{10, 10, 5}
	for page, want := range esperados {
		items, total, err := products.List(query.ProductFilter{},
			query.Sort{Field: query.SortByName}, query.Page{Index: page, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		assert.Len(t, items, want)
		for _, p := range items {
			assert.False(t, vistos[p.ID], "las páginas no se solapan")
			vistos[p.ID] = true
		}
	}
	assert.Len(t, vistos, 25)

	items, total, err := products.List(query.ProductFilter{},
		query.Sort{Field: query.SortByName}, query.Page{Index: 3, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, items, "una página más allá del final es vacía, no un error")
}

// TestProductStore_AjustesConcurrentesNoPierdenDeltas: N incrementos de +1
// liberados a la vez deben sumar exactamente N; un leer-modificar-escribir
// perdería deltas bajo carrera.
func TestProductStore_AjustesConcurrentesNoPierdenDeltas(t *testing.T) {
	store := memstore.New()
	products := store.Products()

	p := nuevoProducto("id-1", "SKU-1", "Uno")
	p.Quantity = 0
	require.NoError(t, products.Create(p))

	const n = 8
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := products.AdjustQuantity("id-1", 1, time.Now())
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	leido, err := products.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, n, leido.Quantity, "cada delta debe contarse exactamente una vez")
}

// TestProductStore_DecrementosConcurrentesRespetanElCero: con 3 unidades y 8
// decrementos concurrentes, exactamente 3 ganan; la guardia evalúa contra la
// cantidad vigente y el stock nunca queda negativo.
func TestProductStore_DecrementosConcurrentesRespetanElCero(t *testing.T) {
	store := memstore.New()
	products := store.Products()

	p := nuevoProducto("id-1", "SKU-1", "Uno")
	p.Quantity = 3
	require.NoError(t, products.Create(p))

	const n = 8
	start := make(chan struct{})
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = products.AdjustQuantity("id-1", -1, time.Now())
		}(i)
	}
	close(start)
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 3, exitos)

	leido, err := products.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, 0, leido.Quantity)
}

func TestStockHistoryStore_MasRecientePrimero(t *testing.T) {
	store := memstore.New()
	history := store.StockHistory()

	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, history.Record(&entity.StockMovement{
			ID:             fmt.Sprintf("mov-%d", i),
			ProductID:      "id-1",
			NewQuantity:    i,
			QuantityChange: 1,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}))
	}

	movimientos, err := history.ListByProduct("id-1")
	require.NoError(t, err)
	require.Len(t, movimientos, 3)
	assert.Equal(t, "mov-2", movimientos[0].ID, "el más reciente va primero")
	assert.Equal(t, "mov-0", movimientos[2].ID)
}

func TestProductStore_BorradoCascadaHistorial(t *testing.T) {
	store := memstore.New()
	products := store.Products()
	history := store.StockHistory()

	require.NoError(t, products.Create(nuevoProducto("id-1", "SKU-1", "Uno")))
	require.NoError(t, history.Record(&entity.StockMovement{ID: "mov-1", ProductID: "id-1", NewQuantity: 5, QuantityChange: 5, CreatedAt: time.Now()}))

	require.NoError(t, products.Delete("id-1"))
	movimientos, err := history.ListByProduct("id-1")
	require.NoError(t, err)
	assert.Empty(t, movimientos, "el historial cae junto con el producto")
}
