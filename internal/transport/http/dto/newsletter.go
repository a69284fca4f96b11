package dto

type SubscribeInput struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}
