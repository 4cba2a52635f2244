package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmployeesSendsFilterAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employees", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "React", q.Get("course"))
		assert.Equal(t, "2", q.Get("page"))
		assert.False(t, q.Has("gender"))
		_ = json.NewEncoder(w).Encode(map[string]any{"employees": []any{}, "totalPages": 3, "currentPage": 2, "total": 25})
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL+"/").ListEmployees(context.Background(), "tok", Filter{Course: "React", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

func TestCreateEmployeeSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, `["React","Node.js"]`, r.FormValue("course"))
		assert.Equal(t, "Jane", r.FormValue("name"))
		f, fh, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		data, _ := io.ReadAll(f)
		assert.Equal(t, "photo.png", fh.Filename)
		assert.Equal(t, "png-bytes", string(data))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "e1", "name": "Jane"})
	}))
	defer srv.Close()

	emp, err := NewClient(srv.URL).CreateEmployee(context.Background(), "tok",
		EmployeeForm{Name: "Jane", Course: []string{"React", "Node.js"}},
		Image{Filename: "photo.png", Data: strings.NewReader("png-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "e1", emp.ID)
}

func TestUpdateEmployeeSendsOnlySetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, []string{"designation"}, keys(r.MultipartForm.Value))
		assert.Empty(t, r.MultipartForm.File)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "e1", "designation": "Lead"})
	}))
	defer srv.Close()

	lead := "Lead"
	emp, err := NewClient(srv.URL).UpdateEmployee(context.Background(), "tok", "e1", EmployeeUpdate{Designation: &lead}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lead", emp.Designation)
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/employees/missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Employee not found"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"field":"email","message":"Invalid email"}]}`))
	}))
	defer srv.Close()
	c := NewClient(srv.URL)

	err := c.DeleteEmployee(context.Background(), "tok", "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Employee not found", apiErr.Error())

	_, err = c.Register(context.Background(), "A", "bad", "secret1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []FieldError{{Field: "email", Message: "Invalid email"}}, apiErr.Fields)
	assert.Equal(t, "Invalid email", apiErr.Error())
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
