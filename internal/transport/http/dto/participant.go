package dto

type ParticipantInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"required,min=7,max=32"`
	Category string `json:"category" validate:"required"`
}

type ParticipantUpdateInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=32"`
	Category *string `json:"category,omitempty"`
}
