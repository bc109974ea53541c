// Package product proxies catalogue administration to the product service
// and records every write in the audit ledger.
package product

import (
	"context"
	"net/url"

	"soukscan/internal/platform/httpclient"
	id "soukscan/pkg/domain"
)

// Product is the product service's representation. Optional fields are
// pointers so partial updates do not clear them.
type Product struct {
	ID          id.ProductID `json:"id,omitempty"`
	Name        string       `json:"name" validate:"required,max=200"`
	Description string       `json:"description,omitempty" validate:"max=4000"`
	Category    string       `json:"category,omitempty" validate:"max=100"`
	Price       *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency    string       `json:"currency,omitempty" validate:"omitempty,len=3"`
	Active      *bool        `json:"active,omitempty"`
}

// Client is the typed product service API.
type Client struct {
	http *httpclient.Client
}

func NewClient(c *httpclient.Client) *Client {
	return &Client{http: c}
}

func (c *Client) List(ctx context.Context) ([]Product, error) {
	return c.list(ctx, "", nil)
}

func (c *Client) Get(ctx context.Context, productID id.ProductID) (*Product, error) {
	var out Product
	if err := c.http.Get(ctx, "/"+productID.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, p *Product) (*Product, error) {
	var out Product
	if err := c.http.Post(ctx, "", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, productID id.ProductID, p *Product) (*Product, error) {
	var out Product
	if err := c.http.Put(ctx, "/"+productID.String(), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, productID id.ProductID) error {
	return c.http.Delete(ctx, "/"+productID.String())
}

func (c *Client) SearchByName(ctx context.Context, name string) ([]Product, error) {
	return c.list(ctx, "/search", url.Values{"name": {name}})
}

func (c *Client) ByCategory(ctx context.Context, category string) ([]Product, error) {
	return c.list(ctx, "/category/"+url.PathEscape(category), nil)
}

func (c *Client) Suggestions(ctx context.Context, query string) ([]Product, error) {
	return c.list(ctx, "/suggestions", url.Values{"query": {query}})
}

func (c *Client) list(ctx context.Context, path string, q url.Values) ([]Product, error) {
	var out []Product
	if err := c.http.Get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}
