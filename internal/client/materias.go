package client

import (
	"context"

	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// SaveCourse creates a course (MateriaID 0) or updates an existing one
func (c *Client) SaveCourse(ctx context.Context, course types.Course) (types.Course, error) {
	return Post[types.Course](ctx, c, EndpointSaveCourse, course)
}

// SearchCourses lists courses, optionally filtered (e.g. MateriaEstado=true for active courses)
func (c *Client) SearchCourses(ctx context.Context, filters Params) ([]types.Course, error) {
	return Get[[]types.Course](ctx, c, EndpointSearchCourses, filters)
}
