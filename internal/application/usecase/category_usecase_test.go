package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/catalogo-api/internal/application/dto"
	"github.com/tu-usuario/catalogo-api/internal/domain"
	"github.com/tu-usuario/catalogo-api/internal/domain/query"
)

func TestCreateCategory_NombreDuplicado(t *testing.T) {
	_, categoryUC := nuevoCatalogo(t)

	_, err := categoryUC.Create(dto.CreateCategoryRequest{Name: "Hogar"})
	require.NoError(t, err)

	_, err = categoryUC.Create(dto.CreateCategoryRequest{Name: "Hogar"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	// La unicidad distingue mayúsculas: "hogar" es otro nombre.
	_, err = categoryUC.Create(dto.CreateCategoryRequest{Name: "hogar"})
	assert.NoError(t, err)
}

func TestCreateCategory_Invalida(t *testing.T) {
	_, categoryUC := nuevoCatalogo(t)

	_, err := categoryUC.Create(dto.CreateCategoryRequest{Name: ""})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

// TestUpdateCategory_RenombrarANombreTomado: renombrar hacia un nombre ya
// tomado falla; conservar el propio nombre nunca es un duplicado.
func TestUpdateCategory_RenombrarANombreTomado(t *testing.T) {
	_, categoryUC := nuevoCatalogo(t)

	hogar, err := categoryUC.Create(dto.CreateCategoryRequest{Name: "Hogar"})
	require.NoError(t, err)
	_, err = categoryUC.Create(dto.CreateCategoryRequest{Name: "Oficina"})
	require.NoError(t, err)

	_, err = categoryUC.Update(hogar.ID, dto.UpdateCategoryRequest{Name: "Hogar", Description: "actualizada"})
	assert.NoError(t, err)

	_, err = categoryUC.Update(hogar.ID, dto.UpdateCategoryRequest{Name: "Oficina"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	// El renombre fallido no tocó la categoría.
	leida, err := categoryUC.GetByID(hogar.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hogar", leida.Name)
}

func TestUpdateCategory_NoExistente(t *testing.T) {
	_, categoryUC := nuevoCatalogo(t)

	_, err := categoryUC.Update("no-existe", dto.UpdateCategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestDeleteCategory_EnUso: una categoría con productos no se borra y el
// estado queda intacto; tras borrar el producto, el delete procede.
func TestDeleteCategory_EnUso(t *testing.T) {
	productUC, categoryUC := nuevoCatalogo(t)

	hogar, err := categoryUC.Create(dto.CreateCategoryRequest{Name: "Hogar"})
	require.NoError(t, err)

	draft := draftProducto("SKU-1", "Lámpara", "10.00")
	draft.CategoryID = hogar.ID
	creado, err := productUC.Create(draft)
	require.NoError(t, err)

	assert.ErrorIs(t, categoryUC.Delete(hogar.ID), domain.ErrCategoryInUse)

	leida, err := categoryUC.GetByID(hogar.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, leida.ProductCount, "categoría y conteo siguen intactos")

	require.NoError(t, productUC.Delete(creado.ID))
	assert.NoError(t, categoryUC.Delete(hogar.ID))

	assert.ErrorIs(t, categoryUC.Delete(hogar.ID), domain.ErrNotFound, "el segundo delete ya no encuentra nada")
}

func TestCategoryList_ConConteos(t *testing.T) {
	productUC, categoryUC := nuevoCatalogo(t)

	hogar, err := categoryUC.Create(dto.CreateCategoryRequest{Name: "Hogar"})
	require.NoError(t, err)
	_, err = categoryUC.Create(dto.CreateCategoryRequest{Name: "Oficina"})
	require.NoError(t, err)

	for i, sku := range []string{"SKU-1", "SKU-2"} {
		draft := draftProducto(sku, "P"+sku, "10.00")
		draft.CategoryID = hogar.ID
		_, err := productUC.Create(draft)
		require.NoError(t, err, "producto %d", i)
	}

	out, err := categoryUC.List(query.CategoryFilter{}, query.Sort{Field: query.SortByName}, query.Page{})
	require.NoError(t, err)
	require.Equal(t, 2, out.Page.Total)
	assert.Equal(t, "Hogar", out.Items[0].Name)
	assert.Equal(t, 2, out.Items[0].ProductCount)
	assert.Equal(t, 0, out.Items[1].ProductCount)
}

func TestCategorySearch(t *testing.T) {
	_, categoryUC := nuevoCatalogo(t)

	_, err := categoryUC.Create(dto.CreateCategoryRequest{Name: "Electrónica"})
	require.NoError(t, err)
	_, err = categoryUC.Create(dto.CreateCategoryRequest{Name: "Hogar"})
	require.NoError(t, err)

	out, err := categoryUC.Search("electró", query.Sort{}, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page.Total, "búsqueda por substring insensible a mayúsculas")

	_, err = categoryUC.Search("", query.Sort{}, query.Page{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestCategoryEmpty: solo aparecen las categorías sin productos; al mover el
// producto la pertenencia al listado cambia.
func TestCategoryEmpty(t *testing.T) {
	productUC, categoryUC := nuevoCatalogo(t)

	hogar, err := categoryUC.Create(dto.CreateCategoryRequest{Name: "Hogar"})
	require.NoError(t, err)
	oficina, err := categoryUC.Create(dto.CreateCategoryRequest{Name: "Oficina"})
	require.NoError(t, err)

	draft := draftProducto("SKU-1", "Lámpara", "10.00")
	draft.CategoryID = hogar.ID
	creado, err := productUC.Create(draft)
	require.NoError(t, err)

	out, err := categoryUC.Empty(query.Sort{}, query.Page{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Page.Total)
	assert.Equal(t, oficina.ID, out.Items[0].ID)

	_, err = productUC.Update(creado.ID, dto.UpdateProductRequest{
		SKU: "SKU-1", Name: "Lámpara", Quantity: 5,
		Price: creado.Price, CategoryID: oficina.ID,
	})
	require.NoError(t, err)

	out, err = categoryUC.Empty(query.Sort{}, query.Page{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Page.Total)
	assert.Equal(t, hogar.ID, out.Items[0].ID)
}
