package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/catalogo-api/internal/domain"
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = "id, sku, name, description, quantity, price, category_id, created_at, updated_at"

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). Los constraints UNIQUE(sku) y la FK a categories son
// la señal autoritativa de duplicado/referencia inválida al confirmar.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(product *entity.Product) error {
	sql := `
		INSERT INTO products (id, sku, name, description, quantity, price, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), sql,
		product.ID, product.SKU, product.Name, product.Description,
		product.Quantity, product.Price, nullableID(product.CategoryID),
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteError(err, "insert product")
	}
	return nil
}

// GetByID obtiene un producto por ID, o ErrNotFound.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	sql := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update reemplaza todos los campos mutables del producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	sql := `
		UPDATE products
		SET sku = $2, name = $3, description = $4, quantity = $5, price = $6, category_id = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), sql,
		product.ID, product.SKU, product.Name, product.Description,
		product.Quantity, product.Price, nullableID(product.CategoryID), product.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteError(err, "update product")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto (el historial cae en cascada por FK).
func (r *ProductRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustQuantity aplica el delta de forma relativa en una sola sentencia:
// `quantity = quantity + δ` nunca pisa un ajuste concurrente, y el CHECK
// (quantity >= 0) es la guardia autoritativa de stock insuficiente.
func (r *ProductRepo) AdjustQuantity(id string, delta int, at time.Time) (*entity.Product, error) {
	sql := `
		UPDATE products
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(context.Background(), sql, id, delta, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}
	return p, nil
}

// ExistsBySKU chequeo consultivo del índice único de SKU.
func (r *ProductRepo) ExistsBySKU(sku string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, sku,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by sku: %w", err)
	}
	return exists, nil
}

// List devuelve la página solicitada y el total de coincidencias.
// El WHERE, el ORDER BY (con desempate por id) y la ventana reproducen la
// semántica del motor de consulta del dominio.
func (r *ProductRepo) List(filter query.ProductFilter, sort query.Sort, page query.Page) ([]*entity.Product, int, error) {
	where, args := buildProductWhere(filter)

	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM products`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	page = page.Normalize()
	sql := `SELECT ` + productColumns + ` FROM products` + where + orderProductsBy(sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Index*page.Size)

	items, err := r.queryProducts(sql, args)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAll devuelve la secuencia completa ordenada, sin ventana.
func (r *ProductRepo) ListAll(filter query.ProductFilter, sort query.Sort) ([]*entity.Product, error) {
	where, args := buildProductWhere(filter)
	sql := `SELECT ` + productColumns + ` FROM products` + where + orderProductsBy(sort)
	return r.queryProducts(sql, args)
}

// CountByCategory cuenta los productos que referencian la categoría.
func (r *ProductRepo) CountByCategory(categoryID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count by category: %w", err)
	}
	return count, nil
}

func (r *ProductRepo) queryProducts(sql string, args []any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// buildProductWhere traduce el filtro conjuntivo a cláusulas WHERE con
// argumentos posicionales. Rangos inclusivos en ambos extremos.
func buildProductWhere(f query.ProductFilter) (string, []any) {
	clauses := make([]string, 0, 8)
	args := make([]any, 0, 8)
	arg := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if f.Keyword != "" {
		n := arg("%" + f.Keyword + "%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if f.MinPriceSet {
		clauses = append(clauses, fmt.Sprintf("price >= $%d", arg(f.MinPrice)))
	}
	if f.MaxPriceSet {
		clauses = append(clauses, fmt.Sprintf("price <= $%d", arg(f.MaxPrice)))
	}
	if f.QuantityBelow != nil {
		clauses = append(clauses, fmt.Sprintf("quantity < $%d", arg(*f.QuantityBelow)))
	}
	if f.MinQuantity != nil {
		clauses = append(clauses, fmt.Sprintf("quantity >= $%d", arg(*f.MinQuantity)))
	}
	if f.MaxQuantity != nil {
		clauses = append(clauses, fmt.Sprintf("quantity <= $%d", arg(*f.MaxQuantity)))
	}
	if f.OutOfStock {
		clauses = append(clauses, "quantity = 0")
	}
	if len(f.CategoryIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("category_id = ANY($%d)", arg(f.CategoryIDs)))
	}
	if f.Uncategorized {
		clauses = append(clauses, "category_id IS NULL")
	}
	if f.CreatedFrom != nil {
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", arg(*f.CreatedFrom)))
	}
	if f.CreatedTo != nil {
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", arg(*f.CreatedTo)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// orderProductsBy arma el ORDER BY con columna whitelisted y desempate por id.
func orderProductsBy(s query.Sort) string {
	s = s.Normalize()
	column := "name"
	switch s.Field {
	case query.SortBySKU:
		column = "sku"
	case query.SortByPrice:
		column = "price"
	case query.SortByQuantity:
		column = "quantity"
	case query.SortByCreatedAt:
		column = "created_at"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, dir)
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Quantity, &p.Price,
		&categoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}

// nullableID convierte el sentinel "" a NULL para la columna category_id.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// mapProductWriteError traduce errores de constraint a errores de dominio.
// El único índice único de products es el de SKU.
func mapProductWriteError(err error, op string) error {
	if _, ok := uniqueViolation(err); ok {
		return domain.ErrDuplicateSKU
	}
	if isForeignKeyViolation(err) {
		return domain.ErrCategoryNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
