package model

import "time"

// UserType classifies the applicant; schemes may be restricted to one type.
type UserType string

const (
	UserTypeStudent    UserType = "student"
	UserTypeFarmer     UserType = "farmer"
	UserTypeUnemployed UserType = "unemployed"
	UserTypeWorker     UserType = "worker"
	UserTypeOther      UserType = "other"
)

// IsValid reports whether t is a known user type.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeStudent, UserTypeFarmer, UserTypeUnemployed, UserTypeWorker, UserTypeOther:
		return true
	}
	return false
}

// Profile holds the personal and demographic attributes of one user.
// Agents read it but never write it back.
type Profile struct {
	UserID   string   `json:"user_id"`
	UserType UserType `json:"user_type"`

	FullName          string   `json:"full_name"`
	DOB               string   `json:"dob,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	State             string   `json:"state,omitempty"`
	District          string   `json:"district,omitempty"`
	AadhaarNumber     string   `json:"aadhaar_number,omitempty"`
	MobileNumber      string   `json:"mobile_number,omitempty"`
	BankAccountNumber string   `json:"bank_account_number,omitempty"`
	IFSCCode          string   `json:"ifsc_code,omitempty"`
	Income            *float64 `json:"income,omitempty"`
	Category          string   `json:"category,omitempty"`

	// Student
	CollegeName      string `json:"college_name,omitempty"`
	University       string `json:"university,omitempty"`
	CourseName       string `json:"course_name,omitempty"`
	CourseType       string `json:"course_type,omitempty"`
	YearOfStudy      *int   `json:"year_of_study,omitempty"`
	EnrollmentNumber string `json:"enrollment_number,omitempty"`

	// Farmer
	LandOwnership string   `json:"land_ownership,omitempty"`
	LandSize      *float64 `json:"land_size,omitempty"`
	CropType      string   `json:"crop_type,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}
