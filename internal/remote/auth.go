package remote

import (
	"context"
	"net/http"
)

// User is the remote API's user payload.
type User struct {
	ID          int64  `json:"id"`
	Fullname    string `json:"fullname"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
	Role        Role   `json:"role"`
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RegisterRequest struct {
	Fullname       string `json:"fullname"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RetypePassword string `json:"retype_password"`
	DateOfBirth    string `json:"date_of_birth"`
	Address        string `json:"address"`
	RoleID         int64  `json:"role_id"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
	RoleID      int64  `json:"role_id"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerResponse struct {
	User User `json:"user"`
}

// AuthClient talks to the remote auth endpoints.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

// Register creates an account. The credential is not established here; callers
// follow up with Login.
func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var resp registerResponse
	if err := c.client.do(ctx, http.MethodPost, "/users/register", false, req, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Login exchanges credentials for a bearer token. Verification happens
// entirely on the remote side; the returned token is handed to the session
// holder for storage.
func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (string, error) {
	var resp loginResponse
	if err := c.client.do(ctx, http.MethodPost, "/users/login", false, req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// CurrentUser fetches the user behind the stored token.
func (c *AuthClient) CurrentUser(ctx context.Context) (User, error) {
	var user User
	if err := c.client.do(ctx, http.MethodPost, "/users/details", true, struct{}{}, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdateUser updates profile details for the given user.
func (c *AuthClient) UpdateUser(ctx context.Context, userID int64, req RegisterRequest) (User, error) {
	var user User
	if err := c.client.do(ctx, http.MethodPut, pathf("/users/details/%d", userID), true, req, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
