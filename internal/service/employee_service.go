package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"employee-directory/internal/apperr"
	"employee-directory/internal/models"
	"employee-directory/internal/query"
	"employee-directory/internal/store"
	"employee-directory/internal/upload"
)

// EmployeeService implements the employee operations. Every method takes the
// caller explicitly and scopes all store access to caller.ID.
type EmployeeService struct {
	store    store.EmployeeStore
	images   *upload.Coordinator
	validate *validator.Validate
}

func NewEmployeeService(s store.EmployeeStore, images *upload.Coordinator) *EmployeeService {
	return &EmployeeService{store: s, images: images, validate: newValidator()}
}

// List returns one page of the caller's employees matching c.
func (s *EmployeeService) List(ctx context.Context, caller models.Identity, c query.Criteria) (models.EmployeePage, error) {
	q := query.Build(c, caller.ID)
	employees, total, err := s.store.ListEmployees(ctx, q)
	if err != nil {
		return models.EmployeePage{}, err
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	return models.EmployeePage{
		Employees:   employees,
		TotalPages:  query.TotalPages(total, q.PageSize),
		CurrentPage: q.Page,
		Total:       total,
	}, nil
}

// Create validates the input, uploads the image and stores the record. No
// record is written unless the upload succeeded.
func (s *EmployeeService) Create(ctx context.Context, caller models.Identity, in models.EmployeeInput, image *upload.File) (models.Employee, error) {
	if err := validateInput(s.validate, &in); err != nil {
		return models.Employee{}, err
	}
	if image == nil {
		return models.Employee{}, apperr.ErrImageRequired
	}
	url, err := s.images.Store(ctx, image)
	if err != nil {
		return models.Employee{}, err
	}
	return s.store.CreateEmployee(ctx, models.Employee{
		Name:        in.Name,
		Email:       in.Email,
		Mobile:      in.Mobile,
		Designation: in.Designation,
		Gender:      models.Gender(in.Gender),
		Course:      in.Course,
		ImageURL:    url,
		OwnerID:     caller.ID,
	})
}

func (s *EmployeeService) Get(ctx context.Context, caller models.Identity, id string) (models.Employee, error) {
	return s.store.GetEmployee(ctx, id, caller.ID)
}

// PatchSource decodes an update request into the fields to change and an
// optional new image.
type PatchSource func() (models.EmployeePatch, *upload.File, error)

// Update merges the decoded patch over the caller's record. decode runs only
// after the record is found, so a missing or foreign id is ErrNotFound whatever
// the request body holds. Without a new image the stored URL is kept.
func (s *EmployeeService) Update(ctx context.Context, caller models.Identity, id string, decode PatchSource) (models.Employee, error) {
	current, err := s.store.GetEmployee(ctx, id, caller.ID)
	if err != nil {
		return models.Employee{}, err
	}
	patch, image, err := decode()
	if err != nil {
		return models.Employee{}, err
	}

	patch.Apply(&current)
	in := current.Input()
	if err := validateInput(s.validate, &in); err != nil {
		return models.Employee{}, err
	}
	current.Name, current.Email, current.Mobile = in.Name, in.Email, in.Mobile
	current.Designation, current.Gender, current.Course = in.Designation, models.Gender(in.Gender), in.Course

	if image != nil {
		url, err := s.images.Store(ctx, image)
		if err != nil {
			return models.Employee{}, err
		}
		current.ImageURL = url
	}
	current.OwnerID = caller.ID
	return s.store.UpdateEmployee(ctx, current)
}

func (s *EmployeeService) Delete(ctx context.Context, caller models.Identity, id string) error {
	return s.store.DeleteEmployee(ctx, id, caller.ID)
}
