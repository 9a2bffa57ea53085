package service

import (
	"strings"
	"unicode/utf8"

	"lireddit/internal/model"
)

// minCredentialLength is the exclusive lower bound for usernames and passwords.
const minCredentialLength = 2

// ValidateRegistration checks the rules in order and returns only the first
// violation, or nil when the input is acceptable.
func ValidateRegistration(req *model.RegisterRequest) []model.FieldError {
	switch {
	case !strings.Contains(req.Email, "@"):
		return []model.FieldError{{Field: "email", Message: "invalid email"}}
	case tooShort(req.Username):
		return []model.FieldError{{Field: "username", Message: "username is too short"}}
	case strings.Contains(req.Username, "@"):
		return []model.FieldError{{Field: "username", Message: "username cannot include @"}}
	case tooShort(req.Password):
		return []model.FieldError{{Field: "password", Message: "password is too short"}}
	}
	return nil
}

// tooShort counts characters, not bytes.
func tooShort(s string) bool {
	return utf8.RuneCountInString(s) <= minCredentialLength
}
