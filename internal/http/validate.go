package http

import (
	"strings"

	"github.com/tazhibayda/profile-service/internal/domain"
)

// fieldError mirrors the validation payload the original API exposed:
// {"errors":[{"msg":...,"param":...}]}. Every violated field is reported,
// not just the first.
type fieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}

func validateRegister(in registerReq) []fieldError {
	var errs []fieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, fieldError{Msg: "Name is required", Param: "name"})
	}
	if !validEmail(in.Email) {
		errs = append(errs, fieldError{Msg: "Please insert a valid email", Param: "email"})
	}
	if len(in.Password) < 6 {
		errs = append(errs, fieldError{Msg: "Please input password with 6 or more characters", Param: "password"})
	}
	return errs
}

func validateLogin(in loginReq) []fieldError {
	var errs []fieldError
	if !validEmail(in.Email) {
		errs = append(errs, fieldError{Msg: "Please insert a valid email", Param: "email"})
	}
	if in.Password == "" {
		errs = append(errs, fieldError{Msg: "Password is required", Param: "password"})
	}
	return errs
}

func validateProfileInput(in domain.ProfileInput) []fieldError {
	var errs []fieldError
	if strings.TrimSpace(in.Status) == "" {
		errs = append(errs, fieldError{Msg: "Status is required", Param: "status"})
	}
	if strings.TrimSpace(in.Skills) == "" {
		errs = append(errs, fieldError{Msg: "Skills is required", Param: "skills"})
	}
	return errs
}

func validateExperience(in experienceReq) []fieldError {
	var errs []fieldError
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, fieldError{Msg: "Title is required", Param: "title"})
	}
	if strings.TrimSpace(in.Company) == "" {
		errs = append(errs, fieldError{Msg: "Company is required", Param: "company"})
	}
	if strings.TrimSpace(in.From) == "" {
		errs = append(errs, fieldError{Msg: "From Date is required", Param: "from"})
	}
	if strings.TrimSpace(in.To) == "" && !in.Current {
		errs = append(errs, fieldError{Msg: "To Date is required", Param: "to"})
	}
	return errs
}

func validateEducation(in educationReq) []fieldError {
	var errs []fieldError
	if strings.TrimSpace(in.School) == "" {
		errs = append(errs, fieldError{Msg: "School is required", Param: "school"})
	}
	if strings.TrimSpace(in.Degree) == "" {
		errs = append(errs, fieldError{Msg: "Degree is required", Param: "degree"})
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		errs = append(errs, fieldError{Msg: "Field of study is required", Param: "fieldofstudy"})
	}
	if strings.TrimSpace(in.From) == "" {
		errs = append(errs, fieldError{Msg: "From Date is required", Param: "from"})
	}
	if strings.TrimSpace(in.To) == "" && !in.Current {
		errs = append(errs, fieldError{Msg: "To Date is required", Param: "to"})
	}
	return errs
}
