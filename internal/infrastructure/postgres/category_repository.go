package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/catalogo-api/internal/domain"
	"github.com/tu-usuario/catalogo-api/internal/domain/entity"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
	"github.com/tu-usuario/catalogo-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
// UNIQUE(name) y la FK RESTRICT desde products son las señales autoritativas:
// el duplicado y el "en uso" se detectan al confirmar, no antes.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría nueva.
func (r *CategoryRepo) Create(category *entity.Category) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)`,
		category.ID, category.Name, category.Description,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID, o ErrNotFound.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, description FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update actualiza name/description.
func (r *CategoryRepo) Update(category *entity.Category) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		category.ID, category.Name, category.Description,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la categoría. La FK RESTRICT de products impide borrar una
// categoría referenciada, incluso con un create de producto concurrente.
func (r *CategoryRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistsByName chequeo consultivo del índice único de nombre (sensible a mayúsculas).
func (r *CategoryRepo) ExistsByName(name string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by name: %w", err)
	}
	return exists, nil
}

// List devuelve la página solicitada y el total de coincidencias.
func (r *CategoryRepo) List(filter query.CategoryFilter, sort query.Sort, page query.Page) ([]*entity.Category, int, error) {
	where, args := buildCategoryWhere(filter)

	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM categories`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	page = page.Normalize()
	sql := `SELECT id, name, description FROM categories` + where + orderCategoriesBy(sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Index*page.Size)

	items, err := r.queryCategories(sql, args)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAll devuelve la secuencia completa ordenada, sin ventana.
func (r *CategoryRepo) ListAll(filter query.CategoryFilter, sort query.Sort) ([]*entity.Category, error) {
	where, args := buildCategoryWhere(filter)
	sql := `SELECT id, name, description FROM categories` + where + orderCategoriesBy(sort)
	return r.queryCategories(sql, args)
}

func (r *CategoryRepo) queryCategories(sql string, args []any) ([]*entity.Category, error) {
	rows, err := r.q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// buildCategoryWhere: búsqueda por nombre insensible a mayúsculas (ILIKE).
func buildCategoryWhere(f query.CategoryFilter) (string, []any) {
	if f.Name == "" {
		return "", nil
	}
	return " WHERE name ILIKE $1", []any{"%" + f.Name + "%"}
}

func orderCategoriesBy(s query.Sort) string {
	s = s.Normalize()
	column := "name"
	if s.Field == "id" {
		column = "id"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, dir)
}
