package client

import (
	"context"

	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// Login authenticates a user with the security service.
// The caller decides whether to persist the returned token (see session.Store.SaveLogin).
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (types.LoginResponse, error) {
	return Post[types.LoginResponse](ctx, c, EndpointLogin, req)
}

// RegisterUser creates a new user account using the security service
func (c *Client) RegisterUser(ctx context.Context, req types.RegisterRequest) (types.RegisterResponse, error) {
	return Post[types.RegisterResponse](ctx, c, EndpointRegister, req)
}
