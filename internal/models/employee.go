package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Employee is a directory record. OwnerID is the user that created it and the
// only user allowed to read or change it.
type Employee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Designation string    `json:"designation"`
	Gender      Gender    `json:"gender"`
	Course      []string  `json:"course"`
	ImageURL    string    `json:"imageUrl"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EmployeeInput carries the fields of a create request.
type EmployeeInput struct {
	Name        string   `form:"name" validate:"required"`
	Email       string   `form:"email" validate:"required,email"`
	Mobile      string   `form:"mobile" validate:"required,mobile"`
	Designation string   `form:"designation" validate:"required"`
	Gender      string   `form:"gender" validate:"required,oneof=male female other"`
	Course      []string `form:"course" validate:"required,min=1,dive,required"`
}

// EmployeePatch carries the fields of an update request. Nil means "keep".
type EmployeePatch struct {
	Name        *string
	Email       *string
	Mobile      *string
	Designation *string
	Gender      *string
	Course      *[]string
}

// Input returns the create-shaped view of an employee, used to validate the
// result of a merge.
func (e Employee) Input() EmployeeInput {
	return EmployeeInput{
		Name:        e.Name,
		Email:       e.Email,
		Mobile:      e.Mobile,
		Designation: e.Designation,
		Gender:      string(e.Gender),
		Course:      e.Course,
	}
}

// Apply merges the supplied fields over e.
func (p EmployeePatch) Apply(e *Employee) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Mobile != nil {
		e.Mobile = *p.Mobile
	}
	if p.Designation != nil {
		e.Designation = *p.Designation
	}
	if p.Gender != nil {
		e.Gender = Gender(*p.Gender)
	}
	if p.Course != nil {
		e.Course = append([]string(nil), (*p.Course)...)
	}
}

// EmployeePage is one page of a filtered employee listing.
type EmployeePage struct {
	Employees   []Employee `json:"employees"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
	Total       int        `json:"total"`
}
