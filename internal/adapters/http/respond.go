package httpadapter

import (
	"net/http"
	"net/url"

	"github.com/go-chi/render"
	"github.com/oapi-codegen/runtime"

	"backoffice/internal/apperr"
	"backoffice/internal/auth"
)

type dataResponse struct {
	Data any `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type resultResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// query writes the result of a read: {data} on success, {error} with a status
// derived from the error kind otherwise.
func query(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err != nil {
		render.Status(r, statusFor(apperr.KindOf(err)))
		render.JSON(w, r, errorResponse{Error: apperr.Message(err)})
		return
	}
	render.JSON(w, r, dataResponse{Data: data})
}

// result writes the outcome of a mutation. Mutations always answer 200.
func result(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		render.JSON(w, r, resultResponse{Success: false, Error: apperr.Message(err)})
		return
	}
	render.JSON(w, r, resultResponse{Success: true})
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, errorResponse{Error: msg})
}

func principal(r *http.Request) *auth.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}

// bind decodes optional form-style query parameters. Absent parameters leave
// their destination untouched.
type bind struct {
	q   url.Values
	err error
}

func bindQuery(r *http.Request) *bind { return &bind{q: r.URL.Query()} }

func (b *bind) has(name string) bool {
	_, ok := b.q[name]
	return ok
}

func (b *bind) param(name string, dest any) *bind {
	if b.err != nil || !b.has(name) {
		return b
	}
	if err := runtime.BindQueryParameter("form", true, true, name, b.q, dest); err != nil {
		b.err = apperr.Validation("invalid %s parameter", name)
	}
	return b
}
