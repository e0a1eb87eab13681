package client

import (
	"fmt"
	"strings"
)

// Service identifies one of the two backends
type Service string

const (
	ServiceSecurity  Service = "security"  // MSSEGURIDAD
	ServicePrincipal Service = "principal" // MSPRINCIPAL
)

// controller names
const (
	ControllerSeguridad  = "Seguridad"
	ControllerParametros = "Parametros"
	ControllerMateria    = "Materia"
	ControllerProfesor   = "Profesor"
	ControllerEstudiante = "Estudiante"
)

// Endpoint is a fixed {service}/{controller}/{action} target
type Endpoint struct {
	Service    Service
	Controller string
	Action     string
}

func (e Endpoint) String() string {
	return e.Controller + "/" + e.Action
}

var (
	EndpointLogin    = Endpoint{ServiceSecurity, ControllerSeguridad, "LoginUsuario"}
	EndpointRegister = Endpoint{ServiceSecurity, ControllerSeguridad, "RegistrarUsuario"}

	EndpointSearchParameters = Endpoint{ServicePrincipal, ControllerParametros, "ConsultarParametros"}
	EndpointUpdateParameter  = Endpoint{ServicePrincipal, ControllerParametros, "ActualizarParametro"}

	EndpointSaveCourse    = Endpoint{ServicePrincipal, ControllerMateria, "CrearActualizarMateria"}
	EndpointSearchCourses = Endpoint{ServicePrincipal, ControllerMateria, "ConsultarMaterias"}

	EndpointSaveProfessor          = Endpoint{ServicePrincipal, ControllerProfesor, "CrearActualizarProfesor"}
	EndpointSearchProfessors       = Endpoint{ServicePrincipal, ControllerProfesor, "ConsultarProfesores"}
	EndpointSearchProfessorCourses = Endpoint{ServicePrincipal, ControllerProfesor, "ConsultarMateriasProfesor"}
	EndpointAssignProfessorCourse  = Endpoint{ServicePrincipal, ControllerProfesor, "AsignarProfesorMateria"}

	EndpointSearchStudents       = Endpoint{ServicePrincipal, ControllerEstudiante, "ConsultarEstudiante"}
	EndpointSearchStudentCourses = Endpoint{ServicePrincipal, ControllerEstudiante, "ConsultarMateriasEstudiante"}
	EndpointEnrollStudentCourse  = Endpoint{ServicePrincipal, ControllerEstudiante, "AsociarMateriaEstudiante"}
	EndpointSearchClassmates     = Endpoint{ServicePrincipal, ControllerEstudiante, "ConsultarCompanerosMaterias"}
)

// resolve builds {serviceBaseURL}/{controller}/{action}
func (c *Client) resolve(e Endpoint) (string, error) {
	base, ok := c.baseURLs[e.Service]
	if !ok || base == "" {
		return "", fmt.Errorf("no base URL configured for the %s service", e.Service)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), e.Controller, e.Action), nil
}
