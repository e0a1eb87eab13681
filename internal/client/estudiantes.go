package client

import (
	"context"

	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// SearchStudents lists the students matching filters
func (c *Client) SearchStudents(ctx context.Context, filters Params) ([]types.Student, error) {
	return Get[[]types.Student](ctx, c, EndpointSearchStudents, filters)
}

// SearchStudentCourses lists the courses a student is enrolled in (filter EstudianteId)
func (c *Client) SearchStudentCourses(ctx context.Context, filters Params) ([]types.StudentCourse, error) {
	return Get[[]types.StudentCourse](ctx, c, EndpointSearchStudentCourses, filters)
}

// EnrollStudentCourse enrolls or withdraws a student depending on EstudianteMateriaEstado
func (c *Client) EnrollStudentCourse(ctx context.Context, req types.Enrollment) (types.Enrollment, error) {
	return Post[types.Enrollment](ctx, c, EndpointEnrollStudentCourse, req)
}

// SearchClassmates lists the other students of a course (filters MateriaId, EstudianteId)
func (c *Client) SearchClassmates(ctx context.Context, filters Params) ([]types.Classmate, error) {
	return Get[[]types.Classmate](ctx, c, EndpointSearchClassmates, filters)
}
