package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/fiyatly/price-catalog/internal/repository"
	"github.com/fiyatly/price-catalog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListingController handles HTTP requests for listing and price comparison operations.
type ListingController struct {
	listingService *service.ListingService
	productService *service.ProductService
}

// NewListingController creates a new ListingController with the given services.
func NewListingController(listingService *service.ListingService, productService *service.ProductService) *ListingController {
	return &ListingController{
		listingService: listingService,
		productService: productService,
	}
}

// CreateListingRequest represents the request body for creating a listing.
// Price is a pointer so a zero price still passes the required binding.
type CreateListingRequest struct {
	ProductID         string   `json:"productId" binding:"required"`
	Platform          string   `json:"platform" binding:"required"`
	PlatformProductID string   `json:"platformProductId"`
	Price             *float64 `json:"price" binding:"required"`
	Currency          string   `json:"currency"`
	URL               string   `json:"url"`
	InStock           *bool    `json:"inStock"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
}

// UpdateListingRequest represents the request body for a partial listing update.
type UpdateListingRequest struct {
	Platform          *string  `json:"platform"`
	PlatformProductID *string  `json:"platformProductId"`
	Price             *float64 `json:"price"`
	Currency          *string  `json:"currency"`
	URL               *string  `json:"url"`
	InStock           *bool    `json:"inStock"`
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
}

// ProductSummary is the compact product view embedded in listing responses.
type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
}

// ListingResponse represents the response body for a listing.
type ListingResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"productId"`
	Platform          string          `json:"platform"`
	PlatformProductID string          `json:"platformProductId"`
	Price             float64         `json:"price"`
	Currency          string          `json:"currency"`
	URL               string          `json:"url"`
	InStock           bool            `json:"inStock"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
	Product           *ProductSummary `json:"product,omitempty"`
}

// CreateListing handles the HTTP POST request for creating a new listing.
func (lc *ListingController) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product ID")
		return
	}

	created, err := lc.listingService.CreateListing(c.Request.Context(), service.CreateListingInput{
		ProductID:         productID,
		Platform:          req.Platform,
		PlatformProductID: req.PlatformProductID,
		Price:             *req.Price,
		Currency:          req.Currency,
		URL:               req.URL,
		InStock:           req.InStock,
		Title:             req.Title,
		Description:       req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, lc.toListingResponseWithProduct(c, created))
}

// GetListing handles the HTTP GET request for fetching a listing by ID.
func (lc *ListingController) GetListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	listing, err := lc.listingService.GetListing(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, lc.toListingResponseWithProduct(c, listing))
}

// UpdateListing handles the HTTP PUT request for a partial listing update.
func (lc *ListingController) UpdateListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := lc.listingService.UpdateListing(c.Request.Context(), id, model.ListingPatch{
		Platform:          req.Platform,
		PlatformProductID: req.PlatformProductID,
		Price:             req.Price,
		Currency:          req.Currency,
		URL:               req.URL,
		InStock:           req.InStock,
		Title:             req.Title,
		Description:       req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, lc.toListingResponseWithProduct(c, updated))
}

// DeleteListing handles the HTTP DELETE request for deleting a listing by ID.
func (lc *ListingController) DeleteListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := lc.listingService.DeleteListing(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchListingsRequest represents the query parameters for searching listings.
type SearchListingsRequest struct {
	ProductID string   `form:"productId"`
	Platform  string   `form:"platform"`
	InStock   *bool    `form:"inStock"`
	MinPrice  *float64 `form:"minPrice"`
	MaxPrice  *float64 `form:"maxPrice"`
	Currency  string   `form:"currency"`
	Page      int      `form:"page"`
	Limit     int      `form:"limit"`
}

// ListingListResponse represents the paged response body for a listing search.
type ListingListResponse struct {
	Items []ListingResponse `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// SearchListings handles the HTTP GET request for searching listings.
func (lc *ListingController) SearchListings(c *gin.Context) {
	var req SearchListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := repository.ListingFilter{
		Platform: req.Platform,
		InStock:  req.InStock,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Currency: req.Currency,
		Page:     repository.Page{Number: req.Page, Limit: req.Limit}.Normalize(),
	}
	if req.ProductID != "" {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid product ID")
			return
		}
		filter.ProductID = &productID
	}

	listings, total, err := lc.listingService.SearchListings(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]ListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, toListingResponse(listing))
	}

	respondData(c, http.StatusOK, ListingListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page.Number,
		Limit: filter.Page.Limit,
	})
}

// ListProductListings handles the HTTP GET request for a product's listings.
// It is a listing search filtered to the product with the default paging.
func (lc *ListingController) ListProductListings(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	listings, total, err := lc.listingService.GetListingsByProduct(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]ListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, toListingResponse(listing))
	}

	page := repository.Page{}.Normalize()
	respondData(c, http.StatusOK, ListingListResponse{
		Items: items,
		Total: total,
		Page:  page.Number,
		Limit: page.Limit,
	})
}

// PriceQuoteResponse represents a single platform's offer in a comparison.
type PriceQuoteResponse struct {
	Platform string  `json:"platform"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	URL      string  `json:"url"`
	InStock  bool    `json:"inStock"`
}

// ComparisonEntryResponse is one row of the sorted listing set of a comparison.
type ComparisonEntryResponse struct {
	Platform  string  `json:"platform"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	URL       string  `json:"url"`
	InStock   bool    `json:"inStock"`
	UpdatedAt string  `json:"updatedAt"`
}

// PriceComparisonResponse represents the response body for a price comparison.
// The three statistics are omitted when no purchasable offer exists.
type PriceComparisonResponse struct {
	ProductID     string                    `json:"productId"`
	ProductName   string                    `json:"productName"`
	LowestPrice   *PriceQuoteResponse       `json:"lowestPrice,omitempty"`
	HighestPrice  *PriceQuoteResponse       `json:"highestPrice,omitempty"`
	AveragePrice  *float64                  `json:"averagePrice,omitempty"`
	PlatformCount int                       `json:"platformCount"`
	Listings      []ComparisonEntryResponse `json:"listings"`
}

// ComparePrices handles the HTTP GET request for a product's price comparison.
func (lc *ListingController) ComparePrices(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	comparison, err := lc.listingService.ComparePrices(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, toComparisonResponse(comparison))
}

func toListingResponse(listing *model.Listing) ListingResponse {
	return ListingResponse{
		ID:                listing.ID.String(),
		ProductID:         listing.ProductID.String(),
		Platform:          listing.Platform,
		PlatformProductID: listing.PlatformProductID,
		Price:             listing.Price,
		Currency:          listing.Currency,
		URL:               listing.URL,
		InStock:           listing.InStock,
		Title:             listing.Title,
		Description:       listing.Description,
		CreatedAt:         listing.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         listing.UpdatedAt.Format(time.RFC3339),
	}
}

// toListingResponseWithProduct embeds the compact product view. The product
// lookup is best effort; the listing itself is already the answer.
func (lc *ListingController) toListingResponseWithProduct(c *gin.Context, listing *model.Listing) ListingResponse {
	resp := toListingResponse(listing)
	product, err := lc.productService.GetProduct(c.Request.Context(), listing.ProductID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("Failed to load product for listing response",
				slog.String("productId", listing.ProductID.String()),
				slog.Any("err", err))
		}
		return resp
	}
	resp.Product = &ProductSummary{
		ID:       product.ID.String(),
		Name:     product.Name,
		Category: product.Category,
		Brand:    product.Brand,
	}
	return resp
}

func toComparisonResponse(comparison *model.PriceComparison) PriceComparisonResponse {
	resp := PriceComparisonResponse{
		ProductID:     comparison.ProductID.String(),
		ProductName:   comparison.ProductName,
		AveragePrice:  comparison.AveragePrice,
		PlatformCount: comparison.PlatformCount,
		Listings:      make([]ComparisonEntryResponse, 0, len(comparison.Listings)),
	}
	if comparison.LowestPrice != nil {
		resp.LowestPrice = toQuoteResponse(comparison.LowestPrice)
	}
	if comparison.HighestPrice != nil {
		resp.HighestPrice = toQuoteResponse(comparison.HighestPrice)
	}
	for _, entry := range comparison.Listings {
		resp.Listings = append(resp.Listings, ComparisonEntryResponse{
			Platform:  entry.Platform,
			Price:     entry.Price,
			Currency:  entry.Currency,
			URL:       entry.URL,
			InStock:   entry.InStock,
			UpdatedAt: entry.UpdatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func toQuoteResponse(quote *model.PriceQuote) *PriceQuoteResponse {
	return &PriceQuoteResponse{
		Platform: quote.Platform,
		Price:    quote.Price,
		Currency: quote.Currency,
		URL:      quote.URL,
		InStock:  quote.InStock,
	}
}
