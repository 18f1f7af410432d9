package registration

import (
	"strings"

	"github.com/akeren/college-forms/internal/models"
	"golang.org/x/text/cases"
)

// RegistrationRequest binds from urlencoded, multipart or JSON bodies. Every
// field is optional; a missing field binds as "".
type RegistrationRequest struct {
	Name   string `form:"name" json:"name"`
	Email  string `form:"email" json:"email"`
	Phone  string `form:"phone" json:"phone"`
	Course string `form:"course" json:"course"`
}

// Outcome is the business result of a registration attempt that reached the
// store without error.
type Outcome string

const (
	OutcomeRegistered        Outcome = "registered"
	OutcomeAlreadyRegistered Outcome = "already_registered"
)

// EmailKey is the identity two registrations are compared by: the email with
// trailing spaces removed and Unicode case folded. Leading spaces and other
// trailing whitespace stay significant, as under a MySQL PAD SPACE collation.
func EmailKey(email string) string {
	return cases.Fold().String(strings.TrimRight(email, " "))
}

func ToStudentModel(req *RegistrationRequest) *models.Student {
	return &models.Student{
		Name:     req.Name,
		Email:    req.Email,
		EmailKey: EmailKey(req.Email),
		Phone:    req.Phone,
		Course:   req.Course,
	}
}
