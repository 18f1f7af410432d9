package contact

import "github.com/akeren/college-forms/internal/models"

type ContactRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

func ToContactMessageModel(req *ContactRequest) *models.ContactMessage {
	return &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
}
