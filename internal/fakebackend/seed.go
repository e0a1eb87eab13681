package fakebackend

import (
	"fmt"

	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// dev accounts created by Seed
const (
	DevAdminIdentification   = "admin"
	DevAdminPassword         = "Admin123*"
	DevStudentIdentification = "1020304050"
	DevStudentPassword       = "Estudiante123*"
)

var seedProfessors = []types.Professor{
	{ProfesorIdentificacion: "79100200", ProfesorNombre: "Carlos", ProfesorApellido: "Rodríguez", ProfesorCorreo: "crodriguez@campus.edu.co", ProfesorEstado: true},
	{ProfesorIdentificacion: "52300400", ProfesorNombre: "Ana", ProfesorApellido: "Martínez", ProfesorCorreo: "amartinez@campus.edu.co", ProfesorEstado: true},
	{ProfesorIdentificacion: "80500600", ProfesorNombre: "Luis", ProfesorApellido: "Pérez", ProfesorCorreo: "lperez@campus.edu.co", ProfesorEstado: true},
	{ProfesorIdentificacion: "43700800", ProfesorNombre: "Marta", ProfesorApellido: "Gómez", ProfesorCorreo: "mgomez@campus.edu.co", ProfesorEstado: true},
	{ProfesorIdentificacion: "71900100", ProfesorNombre: "Jorge", ProfesorApellido: "Ramírez", ProfesorCorreo: "jramirez@campus.edu.co", ProfesorEstado: true},
}

var seedCourses = []string{
	"Cálculo Diferencial", "Álgebra Lineal",
	"Física Mecánica", "Química General",
	"Programación I", "Estructuras de Datos",
	"Bases de Datos", "Redes de Computadores",
	"Ética Profesional", "Inglés Técnico",
}

// Seed loads the parameters, the dev accounts, five professors and ten courses (two per professor)
func Seed(records *Records, auth *AuthService) error {
	records.AddParameter(ParamCreditsPerCourse, "3")
	records.AddParameter(ParamCoursesPerStudent, "3")
	records.AddParameter(ParamCoursesPerProfesor, "2")

	accounts := []struct {
		req  types.RegisterRequest
		role int
	}{
		{
			req: types.RegisterRequest{
				UsuarioIdentificacion: DevAdminIdentification,
				UsuarioNombres:        "Administrador",
				UsuarioApellidos:      "Campus",
				UsuarioCorreo:         "admin@campus.edu.co",
				UsuarioContrasena:     DevAdminPassword,
			},
			role: types.RoleAdmin,
		},
		{
			req: types.RegisterRequest{
				UsuarioIdentificacion: DevStudentIdentification,
				UsuarioNombres:        "Laura",
				UsuarioApellidos:      "Castro",
				UsuarioCorreo:         "lcastro@campus.edu.co",
				UsuarioCelular:        "3001234567",
				UsuarioContrasena:     DevStudentPassword,
			},
			role: RoleStudent,
		},
	}
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.req.UsuarioContrasena)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		if _, err := records.AddUser(a.req, hash, a.role); err != nil {
			return fmt.Errorf("seeding user %s: %w", a.req.UsuarioIdentificacion, err)
		}
	}

	for i, p := range seedProfessors {
		professor, err := records.SaveProfessor(p)
		if err != nil {
			return fmt.Errorf("seeding professor %s: %w", p.ProfesorIdentificacion, err)
		}

		for _, name := range seedCourses[i*2 : i*2+2] {
			course, err := records.SaveCourse(types.Course{
				MateriaNombre:      name,
				MateriaDescripcion: "Curso de " + name,
				MateriaEstado:      true,
			})
			if err != nil {
				return fmt.Errorf("seeding course %s: %w", name, err)
			}
			_, err = records.AssignProfessorCourse(types.ProfessorAssignment{
				ProfesorID:            professor.ProfesorID,
				MateriaID:             course.MateriaID,
				ProfesorMateriaEstado: true,
			})
			if err != nil {
				return fmt.Errorf("seeding assignment %s: %w", name, err)
			}
		}
	}

	return nil
}
