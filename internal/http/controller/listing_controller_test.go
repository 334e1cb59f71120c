package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fiyatly/price-catalog/internal/http/controller"
	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/fiyatly/price-catalog/internal/repository"
	"github.com/fiyatly/price-catalog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProductRepository overrides FindByID; the embedded interface panics on
// anything else.
type stubProductRepository struct {
	repository.ProductRepository
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

func (s *stubProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.findByIDFunc(ctx, id)
}

type stubListingRepository struct {
	repository.ListingRepository
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*model.Listing, error)
}

func (s *stubListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	return s.findByIDFunc(ctx, id)
}

func newListingRouter(products repository.ProductRepository, listings repository.ListingRepository) http.Handler {
	gin.SetMode(gin.TestMode)

	productService := service.NewProductService(products)
	listingService := service.NewListingService(products, listings, nil)
	lc := controller.NewListingController(listingService, productService)

	router := gin.New()
	router.GET("/listings/:id", lc.GetListing)
	return router
}

func TestGetListing_ProductEmbedding(t *testing.T) {
	listingID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	listings := &stubListingRepository{
		findByIDFunc: func(context.Context, uuid.UUID) (*model.Listing, error) {
			return &model.Listing{
				ID:        listingID,
				ProductID: productID,
				Platform:  "trendyol",
				Price:     999.90,
				Currency:  "TRY",
				InStock:   true,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		},
	}

	getListing := func(t *testing.T, products repository.ProductRepository) map[string]interface{} {
		t.Helper()

		router := newListingRouter(products, listings)
		req := httptest.NewRequest(http.MethodGet, "/listings/"+listingID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp controller.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		return resp.Data.(map[string]interface{})
	}

	t.Run("known product is embedded", func(t *testing.T) {
		products := &stubProductRepository{
			findByIDFunc: func(_ context.Context, id uuid.UUID) (*model.Product, error) {
				return &model.Product{ID: id, Name: "iPhone 15 Pro", Brand: "apple"}, nil
			},
		}

		data := getListing(t, products)

		product, ok := data["product"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, productID.String(), product["id"])
		assert.Equal(t, "iPhone 15 Pro", product["name"])
	})

	t.Run("product store failure still serves the listing", func(t *testing.T) {
		products := &stubProductRepository{
			findByIDFunc: func(context.Context, uuid.UUID) (*model.Product, error) {
				return nil, errors.New("connection refused")
			},
		}

		data := getListing(t, products)

		assert.Equal(t, listingID.String(), data["id"])
		_, embedded := data["product"]
		assert.False(t, embedded)
	})
}
