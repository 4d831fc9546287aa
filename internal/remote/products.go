package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Product is the remote API's catalog payload.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"category_id"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductPage is one page of a filtered product listing.
type ProductPage struct {
	Products   []Product `json:"products"`
	TotalPages int       `json:"total_pages"`
}

// ListProductsParams filters and paginates the catalog listing. Page is
// zero-based, matching the remote API.
type ListProductsParams struct {
	Page       int
	Limit      int
	Keyword    string
	CategoryID int64
}

// ProductClient talks to the public catalog endpoints. No credential is
// attached; the catalog is browsable anonymously.
type ProductClient struct {
	client *Client
}

func NewProductClient(client *Client) *ProductClient {
	return &ProductClient{client: client}
}

func (c *ProductClient) List(ctx context.Context, params ListProductsParams) (ProductPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	query.Set("limit", strconv.Itoa(limit))
	if params.Keyword != "" {
		query.Set("keyword", params.Keyword)
	}
	if params.CategoryID != 0 {
		query.Set("category_id", strconv.FormatInt(params.CategoryID, 10))
	}

	var page ProductPage
	if err := c.client.do(ctx, http.MethodGet, "/products?"+query.Encode(), false, nil, &page); err != nil {
		return ProductPage{}, err
	}
	return page, nil
}

func (c *ProductClient) Get(ctx context.Context, id int64) (Product, error) {
	var product Product
	if err := c.client.do(ctx, http.MethodGet, pathf("/products/%d", id), false, nil, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

func (c *ProductClient) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.client.do(ctx, http.MethodGet, "/categories", false, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
