package dto

type SystemImageUploadInput struct {
	Section string `form:"section" validate:"required,max=64"`
}
