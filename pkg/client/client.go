package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"employee-directory/internal/models"
)

type (
	Employee     = models.Employee
	EmployeePage = models.EmployeePage
	AuthResponse = models.AuthResponse
	User         = models.User
)

// Client calls the employee directory API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// FieldError is one itemized validation failure returned by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError represents an error response.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" && len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			msgs = append(msgs, f.Message)
		}
		return strings.Join(msgs, ", ")
	}
	return e.Message
}

// NewClient constructs an API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Filter holds the list parameters. Zero fields are omitted.
type Filter struct {
	Search      string
	Gender      string
	Designation string
	Course      string
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

func (f Filter) values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("search", f.Search)
	set("gender", f.Gender)
	set("designation", f.Designation)
	set("course", f.Course)
	set("sortBy", f.SortBy)
	set("sortOrder", f.SortOrder)
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// EmployeeForm is the body of a create request.
type EmployeeForm struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Course      []string
}

// EmployeeUpdate is the body of an update request. Nil fields are not sent.
type EmployeeUpdate struct {
	Name        *string
	Email       *string
	Mobile      *string
	Designation *string
	Gender      *string
	Course      []string
}

// Image is a profile picture to upload.
type Image struct {
	Filename string
	Data     io.Reader
}

func (c *Client) Register(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Name: name, Email: email, Password: password}, &resp)
	return resp, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: email, Password: password}, &resp)
	return resp, err
}

func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var user User
	err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", token, nil, &user)
	return user, err
}

func (c *Client) ListEmployees(ctx context.Context, token string, f Filter) (EmployeePage, error) {
	path := "/api/employees"
	if q := f.values().Encode(); q != "" {
		path += "?" + q
	}
	var page EmployeePage
	err := c.doJSON(ctx, http.MethodGet, path, token, nil, &page)
	return page, err
}

func (c *Client) GetEmployee(ctx context.Context, token, id string) (Employee, error) {
	var emp Employee
	err := c.doJSON(ctx, http.MethodGet, "/api/employees/"+url.PathEscape(id), token, nil, &emp)
	return emp, err
}

func (c *Client) CreateEmployee(ctx context.Context, token string, form EmployeeForm, image Image) (Employee, error) {
	fields := map[string]string{
		"name":        form.Name,
		"email":       form.Email,
		"mobile":      form.Mobile,
		"designation": form.Designation,
		"gender":      form.Gender,
	}
	course, err := json.Marshal(form.Course)
	if err != nil {
		return Employee{}, err
	}
	fields["course"] = string(course)

	var emp Employee
	err = c.doMultipart(ctx, http.MethodPost, "/api/employees", token, fields, &image, &emp)
	return emp, err
}

// UpdateEmployee sends only the set fields; a nil image keeps the current one.
func (c *Client) UpdateEmployee(ctx context.Context, token, id string, u EmployeeUpdate, image *Image) (Employee, error) {
	fields := map[string]string{}
	set := func(k string, v *string) {
		if v != nil {
			fields[k] = *v
		}
	}
	set("name", u.Name)
	set("email", u.Email)
	set("mobile", u.Mobile)
	set("designation", u.Designation)
	set("gender", u.Gender)
	if u.Course != nil {
		course, err := json.Marshal(u.Course)
		if err != nil {
			return Employee{}, err
		}
		fields["course"] = string(course)
	}

	var emp Employee
	err := c.doMultipart(ctx, http.MethodPut, "/api/employees/"+url.PathEscape(id), token, fields, image, &emp)
	return emp, err
}

func (c *Client) DeleteEmployee(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/employees/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuthHeader(req, token)
	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path, token string, fields map[string]string, image *Image, out any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return err
		}
	}
	if image != nil && image.Data != nil {
		part, err := writer.CreateFormFile("image", image.Filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, image.Data); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	addAuthHeader(req, token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string       `json:"error"`
			Errors []FieldError `json:"errors"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" && len(errResp.Errors) == 0 {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg, Fields: errResp.Errors}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func addAuthHeader(req *http.Request, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
