package client

import (
	"context"

	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// SearchParameters returns the system parameters matching filters, e.g. ParametrosNombre
func (c *Client) SearchParameters(ctx context.Context, filters Params) ([]types.Parameter, error) {
	return Get[[]types.Parameter](ctx, c, EndpointSearchParameters, filters)
}

// UpdateParameter changes the name and value of an existing parameter
func (c *Client) UpdateParameter(ctx context.Context, req types.ParameterUpdate) (types.Parameter, error) {
	return Post[types.Parameter](ctx, c, EndpointUpdateParameter, req)
}
