package validate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/testutil"
)

type taskBody struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
	Completed   *bool  `json:"completed"`
}

type idParams struct {
	ID string `param:"id" validate:"uuid"`
}

type listQuery struct {
	Completed string  `query:"completed" validate:"omitempty,oneof=true false"`
	Search    *string `query:"q"`
}

type badParams struct {
	Limit int `param:"limit"`
}

const testID = "3f6c2a4e-2c1a-4b9e-9c1d-5f0e8a7b6c5d"

func serve(t *testing.T, route string, mw func(http.Handler) http.Handler, next http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.With(mw).Handle(route, next)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()

	var body respond.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMiddleware_EmptyTitle_SingleViolation(t *testing.T) {
	t.Parallel()

	v := New(testutil.MakeNoopLogger())
	called := false

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"title":"","description":"x"}`))
	rec := serve(t, "/tasks", Middleware[taskBody, None, None](v), func(http.ResponseWriter, *http.Request) {
		called = true
	}, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeErrors(t, rec)
	assert.Equal(t, "Validation error", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "body.title", body.Errors[0].Field)
	assert.NotEmpty(t, body.Errors[0].Message)
}

func TestMiddleware_Success_StoresRequest(t *testing.T) {
	t.Parallel()

	v := New(testutil.MakeNoopLogger())

	var got Request[taskBody, idParams, None]
	var ok bool

	req := httptest.NewRequest(http.MethodPut, "/tasks/"+testID, strings.NewReader(`{"title":"t","description":"d","completed":true}`))
	rec := serve(t, "/tasks/{id}", Middleware[taskBody, idParams, None](v), func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext[taskBody, idParams, None](r.Context())
		w.WriteHeader(http.StatusNoContent)
	}, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)
	assert.Equal(t, "t", got.Body.Title)
	assert.Equal(t, "d", got.Body.Description)
	require.NotNil(t, got.Body.Completed)
	assert.True(t, *got.Body.Completed)
	assert.Equal(t, testID, got.Params.ID)
}

func TestMiddleware_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		route      string
		target     string
		body       string
		mw         func(v *Validator) func(http.Handler) http.Handler
		wantFields []string
	}{
		{
			name:   "missing body fields in struct order",
			route:  "/tasks",
			target: "/tasks",
			body:   `{}`,
			mw: func(v *Validator) func(http.Handler) http.Handler {
				return Middleware[taskBody, None, None](v)
			},
			wantFields: []string{"body.title", "body.description"},
		},
		{
			name:   "empty request body",
			route:  "/tasks",
			target: "/tasks",
			body:   ``,
			mw: func(v *Validator) func(http.Handler) http.Handler {
				return Middleware[taskBody, None, None](v)
			},
			wantFields: []string{"body.title", "body.description"},
		},
		{
			name:   "malformed json",
			route:  "/tasks",
			target: "/tasks",
			body:   `{"title":`,
			mw: func(v *Validator) func(http.Handler) http.Handler {
				return Middleware[taskBody, None, None](v)
			},
			wantFields: []string{"body"},
		},
		{
			name:   "wrong json type",
			route:  "/tasks",
			target: "/tasks",
			body:   `{"title":"t","description":"d","completed":"yes"}`,
			mw: func(v *Validator) func(http.Handler) http.Handler {
				return Middleware[taskBody, None, None](v)
			},
			wantFields: []string{"body.completed"},
		},
		{
			name:   "body and params reported together",
			route:  "/tasks/{id}",
			target: "/tasks/not-a-uuid",
			body:   `{"title":"","description":"d"}`,
			mw: func(v *Validator) func(http.Handler) http.Handler {
				return Middleware[taskBody, idParams, None](v)
			},
			wantFields: []string{"body.title", "params.id"},
		},
		{
			name:   "malformed json with invalid params",
			route:  "/tasks/{id}",
			target: "/tasks/not-a-uuid",
			body:   `{bad`,
			mw: func(v *Validator) func(http.Handler) http.Handler {
				return Middleware[taskBody, idParams, None](v)
			},
			wantFields: []string{"body", "params.id"},
		},
		{
			name:   "query oneof",
			route:  "/tasks",
			target: "/tasks?completed=maybe",
			mw: func(v *Validator) func(http.Handler) http.Handler {
				return Middleware[None, None, listQuery](v)
			},
			wantFields: []string{"query.completed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := New(testutil.MakeNoopLogger())
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			rec := serve(t, tt.route, tt.mw(v), func(http.ResponseWriter, *http.Request) {
				t.Error("handler must not be called")
			}, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decodeErrors(t, rec)
			fields := make([]string, 0, len(body.Errors))
			for _, fe := range body.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestParse_Query(t *testing.T) {
	t.Parallel()

	v := New(testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/tasks?completed=true&q=milk", nil)
	got, err := Parse[None, None, listQuery](v, req)
	require.NoError(t, err)
	assert.Equal(t, "true", got.Query.Completed)
	require.NotNil(t, got.Query.Search)
	assert.Equal(t, "milk", *got.Query.Search)

	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	got, err = Parse[None, None, listQuery](v, req)
	require.NoError(t, err)
	assert.Empty(t, got.Query.Completed)
	assert.Nil(t, got.Query.Search)
}

func TestMiddleware_NonSchemaError(t *testing.T) {
	t.Parallel()

	v := New(testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/items/5", nil)
	rec := serve(t, "/items/{limit}", Middleware[None, badParams, None](v), func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not be called")
	}, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrors(t, rec)
	assert.Empty(t, body.Errors)
	assert.Contains(t, body.Error, ErrUnsupportedField.Error())
}

func TestMiddleware_NonStructBody(t *testing.T) {
	t.Parallel()

	v := New(testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader(`"text"`))
	rec := serve(t, "/raw", Middleware[string, None, None](v), func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not be called")
	}, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFromContext_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := FromContext[taskBody, None, None](req.Context())
	assert.False(t, ok)
}
