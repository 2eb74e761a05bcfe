package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/logging"
	"supplyrisk/internal/ports"
)

// RoleHeader carries the acting role of a request. There is no
// authentication; the header is trusted as is.
const RoleHeader = "X-Actor-Role"

const maxBodyBytes = 1 << 20

var validate = validator.New()

// Server is the JSON API over the supplier, rating and catalog services.
type Server struct {
	suppliers ports.Suppliers
	ratings   ports.Ratings
	catalog   ports.Catalog
}

func New(suppliers ports.Suppliers, ratings ports.Ratings, catalog ports.Catalog) *Server {
	return &Server{suppliers: suppliers, ratings: ratings, catalog: catalog}
}

// Routes returns a chi.Router with every handler mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.getHealthz)

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", s.listSuppliers)
		r.Post("/", s.postSupplier)
		r.Route("/{supplierId}", func(r chi.Router) {
			r.Get("/", s.getSupplier)
			r.Patch("/", s.patchSupplier)
			r.Get("/summary", s.getSummary)
			r.Get("/rating", s.getRating)
			r.Post("/services", s.postService)
			r.Route("/services/{serviceId}", func(r chi.Router) {
				r.Get("/", s.getService)
				r.Patch("/", s.patchService)
				r.Post("/transitions", s.postTransition)
			})
		})
	})

	r.Post("/risk/assess", s.postAssess)
	r.Get("/asset-classifications", s.listClassifications)
	r.Get("/asset-classifications/{classificationId}", s.getClassification)
	return r
}

// actorRole resolves the role of the caller. A missing header means User.
func actorRole(r *http.Request) (domain.Role, error) {
	v := r.Header.Get(RoleHeader)
	if v == "" {
		return domain.RoleUser, nil
	}
	return domain.ParseRole(v)
}

func pathParam(r *http.Request, name string) (string, error) {
	var out string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &out,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return out, nil
}

func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "err", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRoleNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRatingUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "err", err)
		msg = "internal error"
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", "30")
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}
