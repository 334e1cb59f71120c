package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated is a Prometheus counter for tracking the total number of products created.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "The total number of products created",
	})

	// ProductsDeleted is a Prometheus counter for tracking the total number of products deleted.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "The total number of products deleted",
	})

	// ListingsCreated is a Prometheus counter for tracking the total number of listings created.
	ListingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_created_total",
		Help: "The total number of listings created",
	})

	// ListingsDeleted is a Prometheus counter for tracking the total number of listings deleted.
	ListingsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_deleted_total",
		Help: "The total number of listings deleted",
	})

	// PriceComparisons is a Prometheus counter for tracking served price comparisons.
	PriceComparisons = promauto.NewCounter(prometheus.CounterOpts{
		Name: "price_comparisons_total",
		Help: "The total number of price comparison summaries served",
	})
)
