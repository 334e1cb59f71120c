package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	reposql "github.com/fiyatly/price-catalog/internal/repository/sql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, router http.Handler, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func dataObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	response := decodeEnvelope(t, w)
	require.Equal(t, true, response["success"], "expected a success envelope, got: %s", w.Body.String())
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "expected a data object, got: %s", w.Body.String())
	return data
}

func TestProductAPI_CreateProduct_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	router := SetupRouter(testDB)
	productRepo := reposql.NewProductRepository(testDB.DB)

	t.Run("create product successfully", func(t *testing.T) {
		testDB.TruncateTables(t)

		w := postJSON(t, router, "/products", map[string]interface{}{
			"name":     "iPhone 15 Pro",
			"category": "smartphones",
			"brand":    "Apple",
			"model":    "A3102",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		data := dataObject(t, w)
		assert.NotEmpty(t, data["id"])
		assert.Equal(t, "iPhone 15 Pro", data["name"])
		assert.Equal(t, "Apple", data["brand"])
		assert.NotEmpty(t, data["createdAt"])
		assert.NotEmpty(t, data["updatedAt"])

		// Verify the product was saved in the database
		productID, err := uuid.Parse(data["id"].(string))
		require.NoError(t, err)

		found, err := productRepo.FindByID(t.Context(), productID)
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("create product without name", func(t *testing.T) {
		testDB.TruncateTables(t)

		w := postJSON(t, router, "/products", map[string]interface{}{
			"category": "smartphones",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := decodeEnvelope(t, w)
		assert.Equal(t, false, response["success"])
		assert.NotEmpty(t, response["error"])
	})

	t.Run("create product with blank name", func(t *testing.T) {
		testDB.TruncateTables(t)

		w := postJSON(t, router, "/products", map[string]interface{}{
			"name": "   ",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductAPI_GetUpdateDelete_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	router := SetupRouter(testDB)
	listingRepo := reposql.NewListingRepository(testDB.DB)

	t.Run("get product", func(t *testing.T) {
		testDB.TruncateTables(t)

		w := postJSON(t, router, "/products", map[string]interface{}{"name": "Galaxy S24"})
		require.Equal(t, http.StatusCreated, w.Code)
		productID := dataObject(t, w)["id"].(string)

		req := httptest.NewRequest(http.MethodGet, "/products/"+productID, nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Galaxy S24", dataObject(t, w)["name"])
	})

	t.Run("get product with invalid ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get non-existent product", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.New().String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("partial update leaves other fields untouched", func(t *testing.T) {
		testDB.TruncateTables(t)

		w := postJSON(t, router, "/products", map[string]interface{}{
			"name":  "MacBook Air",
			"brand": "Apple",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		productID := dataObject(t, w)["id"].(string)

		body, err := json.Marshal(map[string]interface{}{"category": "laptops"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut, "/products/"+productID, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		data := dataObject(t, w)
		assert.Equal(t, "laptops", data["category"])
		assert.Equal(t, "MacBook Air", data["name"])
		assert.Equal(t, "Apple", data["brand"])
	})

	t.Run("update with empty body is rejected", func(t *testing.T) {
		testDB.TruncateTables(t)

		w := postJSON(t, router, "/products", map[string]interface{}{"name": "MacBook Air"})
		require.Equal(t, http.StatusCreated, w.Code)
		productID := dataObject(t, w)["id"].(string)

		req := httptest.NewRequest(http.MethodPut, "/products/"+productID, bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, req)

		assert.Equal(t, http.StatusBadRequest, w2.Code)
	})

	t.Run("delete product cascades to its listings", func(t *testing.T) {
		testDB.TruncateTables(t)

		w := postJSON(t, router, "/products", map[string]interface{}{"name": "PlayStation 5"})
		require.Equal(t, http.StatusCreated, w.Code)
		productID := dataObject(t, w)["id"].(string)

		w = postJSON(t, router, "/listings", map[string]interface{}{
			"productId": productID,
			"platform":  "trendyol",
			"price":     21999.00,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		listingID := dataObject(t, w)["id"].(string)

		req := httptest.NewRequest(http.MethodDelete, "/products/"+productID, nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)

		// The listing must be gone together with the product
		id, err := uuid.Parse(listingID)
		require.NoError(t, err)
		_, err = listingRepo.FindByID(t.Context(), id)
		assert.Error(t, err)
	})

	t.Run("delete non-existent product", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/products/"+uuid.New().String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductAPI_SearchProducts_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	router := SetupRouter(testDB)

	t.Run("search matches name, brand and category", func(t *testing.T) {
		testDB.TruncateTables(t)

		products := []map[string]interface{}{
			{"name": "iPhone 15 Pro", "brand": "Apple", "category": "smartphones"},
			{"name": "Galaxy S24", "brand": "Samsung", "category": "smartphones"},
			{"name": "MacBook Air", "brand": "Apple", "category": "laptops"},
		}
		for _, p := range products {
			w := postJSON(t, router, "/products", p)
			require.Equal(t, http.StatusCreated, w.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/products?q=iphone", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := dataObject(t, w)
		items := data["items"].([]interface{})
		require.Len(t, items, 1)
		assert.Equal(t, "iPhone 15 Pro", items[0].(map[string]interface{})["name"])

		req = httptest.NewRequest(http.MethodGet, "/products?brand=apple&category=smartphones", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data = dataObject(t, w)
		assert.Equal(t, float64(1), data["total"])
	})

	t.Run("pagination clamps the limit", func(t *testing.T) {
		testDB.TruncateTables(t)

		for i := 1; i <= 3; i++ {
			w := postJSON(t, router, "/products", map[string]interface{}{
				"name": fmt.Sprintf("Product %d", i),
			})
			require.Equal(t, http.StatusCreated, w.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/products?limit=150", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := dataObject(t, w)
		assert.Equal(t, float64(100), data["limit"])
		assert.Equal(t, float64(3), data["total"])
	})

	t.Run("second page", func(t *testing.T) {
		testDB.TruncateTables(t)

		for i := 1; i <= 5; i++ {
			w := postJSON(t, router, "/products", map[string]interface{}{
				"name": fmt.Sprintf("Product %d", i),
			})
			require.Equal(t, http.StatusCreated, w.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/products?limit=2&page=2", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := dataObject(t, w)
		items := data["items"].([]interface{})
		assert.Len(t, items, 2)
		assert.Equal(t, float64(5), data["total"])
		assert.Equal(t, float64(2), data["page"])
	})

	t.Run("empty result keeps items an array", func(t *testing.T) {
		testDB.TruncateTables(t)

		req := httptest.NewRequest(http.MethodGet, "/products?q=nonexistent", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := dataObject(t, w)
		items, ok := data["items"].([]interface{})
		require.True(t, ok)
		assert.Empty(t, items)
	})
}
