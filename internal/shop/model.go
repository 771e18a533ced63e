// Package shop defines the storefront collaborators the answering service
// sits next to. Catalog, order and mail management live in the storefront's
// own CRUD layers; they appear here as interfaces only, plus adapters that
// turn their data into knowledge chunks for ingestion.
package shop

import (
	"context"
	"time"
)

// Product is the subset of catalog data the knowledge base cares about.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       float64  `json:"price" yaml:"price"`
	Currency    string   `json:"currency" yaml:"currency"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	InStock     bool     `json:"in_stock" yaml:"in_stock"`
}

// Policy is a store policy document: delivery, returns, payments.
type Policy struct {
	Title    string `json:"title" yaml:"title"`
	Body     string `json:"body" yaml:"body"`
	Category string `json:"category" yaml:"category"`
}

// Order is the dispatch-tracking view of a customer order.
type Order struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	PlacedAt     time.Time `json:"placed_at"`
	DispatchedAt time.Time `json:"dispatched_at,omitempty"`
}

// ProductCatalog is the storefront's product CRUD, external to this service.
type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// OrderTracker is the storefront's order/dispatch state, external to this
// service.
type OrderTracker interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
}

// Mailer is the storefront's newsletter/campaign delivery, external to this
// service.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
