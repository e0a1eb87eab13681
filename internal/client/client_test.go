package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Brayan980312/ProyectoUniversidad/internal/session"
	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// countingStore wraps a session store and counts Clear calls
type countingStore struct {
	*session.Store
	mu     sync.Mutex
	clears int
}

func newCountingStore(token string) *countingStore {
	s := &countingStore{Store: session.NewStore(session.NewMemoryBackend(), nil)}
	if token != "" {
		_ = s.SetToken(token)
	}
	return s
}

func (s *countingStore) Clear() {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
	s.Store.Clear()
}

func (s *countingStore) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// recordingNavigator remembers every navigation request
type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type testEnv struct {
	server    *httptest.Server
	client    *Client
	store     *countingStore
	navigator *recordingNavigator
}

func setupTestEnv(t *testing.T, token string, timeout time.Duration, handler http.HandlerFunc) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	env := &testEnv{
		server:    server,
		store:     newCountingStore(token),
		navigator: &recordingNavigator{},
	}
	env.client = NewClient(Config{
		SecurityBaseURL:  server.URL + "/api",
		PrincipalBaseURL: server.URL + "/api",
		Timeout:          timeout,
	}, env.store, env.navigator)

	return env
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestParamsEncode(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{name: "empty", params: nil, want: ""},
		{name: "single int", params: Params{}.Add("EstudianteId", 7), want: "EstudianteId=7"},
		{
			name:   "insertion order is kept",
			params: Params{}.Add("ProfesorId", 3).Add("MateriaEstado", true).Add("Alpha", "x"),
			want:   "ProfesorId=3&MateriaEstado=true&Alpha=x",
		},
		{
			name:   "values are escaped",
			params: Params{}.Add("ParametrosNombre", "Cantidad Creditos&Max"),
			want:   "ParametrosNombre=Cantidad+Creditos%26Max",
		},
		{name: "float", params: Params{}.Add("Nota", 4.5), want: "Nota=4.5"},
		{name: "false bool", params: Params{}.Add("Activo", false), want: "Activo=false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParamsGet(t *testing.T) {
	p := Params{}.Add("MateriaId", 2).Add("EstudianteId", 7)
	v, ok := p.Get("EstudianteId")
	if !ok || v != 7 {
		t.Errorf("Get(EstudianteId) = %v, %v", v, ok)
	}
	if _, ok := p.Get("ProfesorId"); ok {
		t.Error("Get(ProfesorId) found a missing key")
	}
}

func TestResolve(t *testing.T) {
	c := NewClient(Config{
		SecurityBaseURL:  "https://seguridad.example.org/api/",
		PrincipalBaseURL: "https://principal.example.org/api",
	}, nil, nil)

	tests := []struct {
		endpoint Endpoint
		want     string
	}{
		{EndpointLogin, "https://seguridad.example.org/api/Seguridad/LoginUsuario"},
		{EndpointSearchCourses, "https://principal.example.org/api/Materia/ConsultarMaterias"},
		{EndpointSearchClassmates, "https://principal.example.org/api/Estudiante/ConsultarCompanerosMaterias"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint.String(), func(t *testing.T) {
			got, err := c.resolve(tt.endpoint)
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("resolve() = %q, want %q", got, tt.want)
			}
		})
	}

	empty := NewClient(Config{}, nil, nil)
	if _, err := empty.resolve(EndpointLogin); err == nil {
		t.Error("resolve() without a base URL should fail")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{}, nil, nil)
	if c.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", c.Timeout(), DefaultTimeout)
	}
	if DefaultTimeout != 10*time.Second {
		t.Errorf("DefaultTimeout = %v, want 10s", DefaultTimeout)
	}
}

// filters reach the query string in order and the array decodes unchanged
func TestSearchStudentCoursesWithFilters(t *testing.T) {
	want := []types.StudentCourse{{
		EstudianteMateriaID: 1,
		MateriaID:           2,
		EstudianteID:        7,
		MateriaNombre:       "Algebra",
		MateriaDescripcion:  "...",
		MateriaCreditos:     3,
	}}

	var gotPath, gotQuery, gotMethod string
	env := setupTestEnv(t, "token-123", 0, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, want)
	})

	got, err := env.client.SearchStudentCourses(t.Context(), Params{}.Add("EstudianteId", 7))
	if err != nil {
		t.Fatalf("SearchStudentCourses() error = %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchStudentCourses() mismatch (-want +got):\n%s", diff)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s, want GET", gotMethod)
	}
	if gotPath != "/api/Estudiante/ConsultarMateriasEstudiante" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "EstudianteId=7" {
		t.Errorf("query = %q, want EstudianteId=7", gotQuery)
	}
	if env.store.clearCount() != 0 || len(env.navigator.recorded()) != 0 {
		t.Error("a successful request must not touch the session")
	}
}

// a 422 carries the backend detail and leaves the session alone
func TestLoginValidationFailure(t *testing.T) {
	env := setupTestEnv(t, "", 0, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"status": 422,
			"detail": "Usuario o clave incorrectos",
		})
	})

	_, err := env.client.Login(t.Context(), types.LoginRequest{
		UsuarioIdentificacion: "1020304050",
		UsuarioContrasena:     "wrong",
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *APIError", err)
	}
	if apiErr.Detail != "Usuario o clave incorrectos" || apiErr.Status != 422 {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !apiErr.Structured || !apiErr.IsValidation() {
		t.Errorf("Structured = %v, IsValidation = %v, want true, true", apiErr.Structured, apiErr.IsValidation())
	}
	if UserMessage(err) != "Usuario o clave incorrectos" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
	if _, ok := env.store.Token(); ok {
		t.Error("credential store should remain empty")
	}
	if env.store.clearCount() != 0 {
		t.Error("a 422 must not clear the session")
	}
}

// an empty 401 clears the session, navigates to login and synthesizes the message
func TestUnauthorizedWithoutBody(t *testing.T) {
	env := setupTestEnv(t, "stale-token", 0, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := env.client.SearchCourses(t.Context(), nil)

	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("SearchCourses() error = %v, want ErrUnauthenticated", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "HTTP error! status: 401" || apiErr.Structured {
		t.Errorf("APIError = %+v", apiErr)
	}
	if _, ok := env.store.Token(); ok {
		t.Error("credential store should be empty after a 401")
	}
	if diff := cmp.Diff([]string{LoginPath}, env.navigator.recorded()); diff != "" {
		t.Errorf("navigation mismatch (-want +got):\n%s", diff)
	}
}

// the bearer header mirrors the stored token and is omitted without one
func TestAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantHeader []string
	}{
		{name: "token present", token: "abc.def.ghi", wantHeader: []string{"Bearer abc.def.ghi"}},
		{name: "no token", token: "", wantHeader: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth []string
			var gotContentType string
			env := setupTestEnv(t, tt.token, 0, func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Values("Authorization")
				gotContentType = r.Header.Get("Content-Type")
				writeJSON(w, http.StatusOK, types.Course{MateriaID: 1})
			})

			if _, err := env.client.SaveCourse(t.Context(), types.Course{MateriaNombre: "Física"}); err != nil {
				t.Fatalf("SaveCourse() error = %v", err)
			}

			if diff := cmp.Diff(tt.wantHeader, gotAuth); diff != "" {
				t.Errorf("Authorization mismatch (-want +got):\n%s", diff)
			}
			if gotContentType != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", gotContentType)
			}
		})
	}
}

func TestRequestIDAndHeaderOverride(t *testing.T) {
	var gotID, gotCustom string
	env := setupTestEnv(t, "", 0, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(RequestIDHeader)
		gotCustom = r.Header.Get("Accept-Language")
		writeJSON(w, http.StatusOK, []types.Parameter{})
	})

	_, err := Get[[]types.Parameter](t.Context(), env.client, EndpointSearchParameters, nil, WithHeader("Accept-Language", "es-CO"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotID == "" {
		t.Error("X-Request-ID header missing")
	}
	if gotCustom != "es-CO" {
		t.Errorf("Accept-Language = %q, want es-CO", gotCustom)
	}
}

func TestBodyRoundTrip(t *testing.T) {
	env := setupTestEnv(t, "token", 0, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, body)
	})

	tests := []struct {
		name string
		run  func(ctx context.Context) (any, any, error)
	}{
		{
			name: "professor",
			run: func(ctx context.Context) (any, any, error) {
				in := types.Professor{ProfesorID: 4, ProfesorIdentificacion: "80123", ProfesorNombre: "Luis", ProfesorApellido: "Pérez", ProfesorCorreo: "lp@example.org", ProfesorEstado: true}
				out, err := env.client.SaveProfessor(ctx, in)
				return in, out, err
			},
		},
		{
			name: "enrollment",
			run: func(ctx context.Context) (any, any, error) {
				in := types.Enrollment{EstudianteMateriaID: 0, EstudianteID: 7, MateriaID: 2, EstudianteMateriaEstado: true}
				out, err := env.client.EnrollStudentCourse(ctx, in)
				return in, out, err
			},
		},
		{
			name: "put",
			run: func(ctx context.Context) (any, any, error) {
				in := types.ParameterUpdate{ParametrosID: 1, ParametrosNombre: "CantidadCreditosPorMateria", ParametrosValor: "4"}
				out, err := Put[types.ParameterUpdate](ctx, env.client, EndpointUpdateParameter, in)
				return in, out, err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out, err := tt.run(t.Context())
			if err != nil {
				t.Fatalf("round trip error = %v", err)
			}
			if diff := cmp.Diff(in, out); diff != "" {
				t.Errorf("round trip mismatch (-sent +received):\n%s", diff)
			}
		})
	}
}

func TestTimeoutBoundary(t *testing.T) {
	const timeout = 150 * time.Millisecond

	tests := []struct {
		name        string
		delay       time.Duration
		wantTimeout bool
	}{
		{name: "response after the deadline", delay: timeout + 100*time.Millisecond, wantTimeout: true},
		{name: "response before the deadline", delay: timeout - 130*time.Millisecond, wantTimeout: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t, "token", timeout, func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(tt.delay):
				case <-r.Context().Done():
					return
				}
				writeJSON(w, http.StatusOK, []types.Course{{MateriaID: 1, MateriaNombre: "Cálculo"}})
			})

			got, err := env.client.SearchCourses(t.Context(), nil)

			if tt.wantTimeout {
				if !errors.Is(err, ErrTimeout) {
					t.Fatalf("SearchCourses() error = %v, want ErrTimeout", err)
				}
				if UserMessage(err) != MsgTimeout {
					t.Errorf("UserMessage() = %q", UserMessage(err))
				}
				if _, ok := env.store.Token(); !ok {
					t.Error("a timeout must not clear the session")
				}
				return
			}

			if err != nil {
				t.Fatalf("SearchCourses() error = %v", err)
			}
			if len(got) != 1 || got[0].MateriaNombre != "Cálculo" {
				t.Errorf("SearchCourses() = %+v", got)
			}
		})
	}
}

func TestSlowBodyAfterHeadersIsNotCancelled(t *testing.T) {
	const timeout = 100 * time.Millisecond

	env := setupTestEnv(t, "", timeout, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		time.Sleep(timeout + 50*time.Millisecond)
		_, _ = w.Write([]byte(`[{"materiaId":9}]`))
	})

	got, err := env.client.SearchCourses(t.Context(), nil)
	if err != nil {
		t.Fatalf("SearchCourses() error = %v, the timer must be disarmed once headers arrive", err)
	}
	if len(got) != 1 || got[0].MateriaID != 9 {
		t.Errorf("SearchCourses() = %+v", got)
	}
}

func TestTransportErrorPropagatesUnwrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	store := newCountingStore("token")
	c := NewClient(Config{SecurityBaseURL: baseURL, PrincipalBaseURL: baseURL}, store, nil)

	_, err := c.SearchProfessors(t.Context(), nil)

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatalf("SearchProfessors() error = %T %v, want *url.Error", err, err)
	}
	var apiErr *APIError
	if errors.Is(err, ErrTimeout) || errors.As(err, &apiErr) {
		t.Errorf("transport error misclassified: %v", err)
	}
	if UserMessage(err) != MsgUnknownError {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
	if store.clearCount() != 0 {
		t.Error("a transport error must not clear the session")
	}
}

func TestCallerCancellationIsNotATimeout(t *testing.T) {
	env := setupTestEnv(t, "", time.Second, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := env.client.SearchStudents(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("SearchStudents() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("caller cancellation reported as a timeout")
	}
}

func TestTokenSnapshotPerRequest(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	seen := map[string]string{}

	env := setupTestEnv(t, "token-1", time.Second, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path] = r.Header.Get("Authorization")
		mu.Unlock()

		if r.URL.Path == "/api/Materia/ConsultarMaterias" {
			close(inFlight)
			<-release
			writeJSON(w, http.StatusOK, []types.Course{})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	done := make(chan error, 1)
	go func() {
		_, err := env.client.SearchCourses(context.Background(), nil)
		done <- err
	}()

	<-inFlight
	if _, err := env.client.SearchProfessors(t.Context(), nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("SearchProfessors() error = %v, want ErrUnauthenticated", err)
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("in-flight request failed after another request's 401: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if seen["/api/Materia/ConsultarMaterias"] != "Bearer token-1" {
		t.Errorf("in-flight Authorization = %q", seen["/api/Materia/ConsultarMaterias"])
	}
	if env.store.clearCount() != 1 {
		t.Errorf("Clear() called %d times, want 1", env.store.clearCount())
	}
}
