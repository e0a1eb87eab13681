package client

import (
	"context"

	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// SaveProfessor creates a professor (ProfesorID 0) or updates an existing one
func (c *Client) SaveProfessor(ctx context.Context, professor types.Professor) (types.Professor, error) {
	return Post[types.Professor](ctx, c, EndpointSaveProfessor, professor)
}

// SearchProfessors lists the professors matching filters
func (c *Client) SearchProfessors(ctx context.Context, filters Params) ([]types.Professor, error) {
	return Get[[]types.Professor](ctx, c, EndpointSearchProfessors, filters)
}

// SearchProfessorCourses lists the active courses assigned to a professor (filter ProfesorId)
func (c *Client) SearchProfessorCourses(ctx context.Context, filters Params) ([]types.ProfessorCourse, error) {
	return Get[[]types.ProfessorCourse](ctx, c, EndpointSearchProfessorCourses, filters)
}

// AssignProfessorCourse assigns or unassigns a course depending on ProfesorMateriaEstado
func (c *Client) AssignProfessorCourse(ctx context.Context, req types.ProfessorAssignment) (types.ProfessorAssignment, error) {
	return Post[types.ProfessorAssignment](ctx, c, EndpointAssignProfessorCourse, req)
}
