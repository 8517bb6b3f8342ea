package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/catalogo-api/internal/application/dto"
	"github.com/tu-usuario/catalogo-api/internal/application/usecase"
	"github.com/tu-usuario/catalogo-api/internal/infrastructure/memstore"
	httpRouter "github.com/tu-usuario/catalogo-api/internal/interfaces/http"
)

func nuevaApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memstore.New()
	app := fiber.New()
	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  usecase.NewProductUseCase(store.Products(), store.Categories(), store.StockHistory(), memstore.NewTxRunner(store)),
		CategoryUC: usecase.NewCategoryUseCase(store.Categories(), store.Products()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*nethttp.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func crearProducto(t *testing.T, app *fiber.App, sku, name string, quantity int, precio string) dto.ProductResponse {
	t.Helper()
	resp, raw := doJSON(t, app, "POST", "/api/products/", fiber.Map{
		"sku": sku, "name": name, "quantity": quantity, "price": precio,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var out dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestProductAPI_CicloCompleto(t *testing.T) {
	app := nuevaApp(t)

	creado := crearProducto(t, app, "SKU-1", "Lámpara", 5, "19.99")
	assert.NotEmpty(t, creado.ID)
	assert.Equal(t, "19.99", creado.Price.StringFixed(2))

	resp, raw := doJSON(t, app, "GET", "/api/products/"+creado.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var leido dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &leido))
	assert.Equal(t, "Lámpara", leido.Name)

	resp, _ = doJSON(t, app, "PUT", "/api/products/"+creado.ID, fiber.Map{
		"sku": "SKU-1", "name": "Lámpara LED", "quantity": 8, "price": "24.99",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/products/"+creado.ID, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/products/"+creado.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProductAPI_CodigosDeError(t *testing.T) {
	app := nuevaApp(t)
	crearProducto(t, app, "SKU-1", "Uno", 5, "10.00")

	// SKU duplicado -> 409 con código estable.
	resp, raw := doJSON(t, app, "POST", "/api/products/", fiber.Map{
		"sku": "SKU-1", "name": "Dos", "quantity": 1, "price": "1.00",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, "DUPLICATE_SKU", errResp.Code)

	// Campo requerido ausente -> 400.
	resp, _ = doJSON(t, app, "POST", "/api/products/", fiber.Map{
		"sku": "SKU-2", "quantity": 1, "price": "1.00",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Cantidad negativa -> 400.
	resp, _ = doJSON(t, app, "POST", "/api/products/", fiber.Map{
		"sku": "SKU-3", "name": "Tres", "quantity": -1, "price": "1.00",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Producto inexistente -> 404.
	resp, _ = doJSON(t, app, "GET", "/api/products/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Rango de precio degenerado -> 400.
	resp, _ = doJSON(t, app, "GET", "/api/products/price-range?minPrice=20&maxPrice=10", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// minPrice no decimal -> 400.
	resp, _ = doJSON(t, app, "GET", "/api/products?minPrice=abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProductAPI_ListadoFiltradoYPaginado(t *testing.T) {
	app := nuevaApp(t)

	for i := 0; i < 15; i++ {
		crearProducto(t, app, fmt.Sprintf("SKU-%02d", i), fmt.Sprintf("Widget %02d", i), i, "10.00")
	}

	resp, raw := doJSON(t, app, "GET", "/api/products?keyword=widget&page=1&size=10", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.ProductListResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 15, out.Page.Total)
	assert.Equal(t, 2, out.Page.TotalPages)
	assert.Len(t, out.Items, 5, "la última página queda corta")

	resp, raw = doJSON(t, app, "GET", "/api/products/low-stock?threshold=5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 5, out.Page.Total, "quantity < 5")

	resp, raw = doJSON(t, app, "GET", "/api/products/out-of-stock", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 1, out.Page.Total)
}

func TestProductAPI_AjusteDeStock(t *testing.T) {
	app := nuevaApp(t)
	creado := crearProducto(t, app, "SKU-1", "Uno", 5, "10.00")

	resp, raw := doJSON(t, app, "POST", "/api/products/"+creado.ID+"/adjust-stock", fiber.Map{"change": -3})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 2, out.Quantity)

	resp, _ = doJSON(t, app, "POST", "/api/products/"+creado.ID+"/adjust-stock", fiber.Map{"change": -10})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, raw = doJSON(t, app, "GET", "/api/products/"+creado.ID+"/stock-history", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var historial []dto.StockMovementResponse
	require.NoError(t, json.Unmarshal(raw, &historial))
	require.Len(t, historial, 2)
	assert.Equal(t, -3, historial[0].QuantityChange)
}

func TestCategoryAPI_BorradoEnUso(t *testing.T) {
	app := nuevaApp(t)

	resp, raw := doJSON(t, app, "POST", "/api/categories/", fiber.Map{"name": "Hogar"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var categoria dto.CategoryResponse
	require.NoError(t, json.Unmarshal(raw, &categoria))

	resp, _ = doJSON(t, app, "POST", "/api/products/", fiber.Map{
		"sku": "SKU-1", "name": "Lámpara", "quantity": 1, "price": "10.00", "category_id": categoria.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, raw = doJSON(t, app, "DELETE", "/api/categories/"+categoria.ID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, "CATEGORY_IN_USE", errResp.Code)

	resp, raw = doJSON(t, app, "GET", "/api/categories/"+categoria.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &categoria))
	assert.Equal(t, 1, categoria.ProductCount)
}
