package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// OrderItem is one embedded line of an order. Orders are created in a single
// request with their items embedded; there is no per-line follow-up call.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderRequest struct {
	Fullname        string      `json:"fullname"`
	Email           string      `json:"email"`
	PhoneNumber     string      `json:"phone_number"`
	Address         string      `json:"address"`
	Note            string      `json:"note"`
	TotalMoney      float64     `json:"total_money"`
	ShippingMethod  string      `json:"shipping_method"`
	PaymentMethod   string      `json:"payment_method"`
	CartItems       []OrderItem `json:"cart_items"`
}

type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Fullname    string      `json:"fullname"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phone_number"`
	Address     string      `json:"address"`
	Note        string      `json:"note"`
	OrderDate   string      `json:"order_date"`
	Status      string      `json:"status"`
	TotalMoney  float64     `json:"total_money"`
	Items       []OrderItem `json:"order_details"`
}

type OrderPage struct {
	Orders     []Order `json:"orders"`
	TotalPages int     `json:"total_pages"`
}

type UpdateOrderRequest struct {
	Fullname    string  `json:"fullname"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Address     string  `json:"address"`
	Note        string  `json:"note"`
	Status      string  `json:"status"`
	TotalMoney  float64 `json:"total_money"`
}

// OrderClient talks to the order endpoints. Every call is authenticated; the
// list/update/delete surface backs the admin console.
type OrderClient struct {
	client *Client
}

func NewOrderClient(client *Client) *OrderClient {
	return &OrderClient{client: client}
}

func (c *OrderClient) Create(ctx context.Context, req CreateOrderRequest) (Order, error) {
	var order Order
	if err := c.client.do(ctx, http.MethodPost, "/orders", true, req, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// ListByKeyword pages through orders matching keyword. Page is zero-based.
func (c *OrderClient) ListByKeyword(ctx context.Context, keyword string, page, limit int) (OrderPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if limit <= 0 {
		limit = 10
	}
	query.Set("limit", strconv.Itoa(limit))
	if keyword != "" {
		query.Set("keyword", keyword)
	}

	var result OrderPage
	if err := c.client.do(ctx, http.MethodGet, "/orders?"+query.Encode(), true, nil, &result); err != nil {
		return OrderPage{}, err
	}
	return result, nil
}

func (c *OrderClient) Get(ctx context.Context, id int64) (Order, error) {
	var order Order
	if err := c.client.do(ctx, http.MethodGet, pathf("/orders/%d", id), true, nil, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

func (c *OrderClient) Update(ctx context.Context, id int64, req UpdateOrderRequest) (Order, error) {
	var order Order
	if err := c.client.do(ctx, http.MethodPut, pathf("/orders/%d", id), true, req, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

func (c *OrderClient) Delete(ctx context.Context, id int64) error {
	return c.client.do(ctx, http.MethodDelete, pathf("/orders/%d", id), true, nil, nil)
}
