package dto

// EventInput is submitted as multipart form data together with an image.
type EventInput struct {
	Title    string `form:"title" validate:"required,max=255"`
	Theme    string `form:"theme" validate:"required,max=255"`
	Details  string `form:"details" validate:"required"`
	DateTime string `form:"date_time" validate:"required"`
	Location string `form:"location" validate:"required,max=255"`
}

type EventUpdateInput struct {
	Title    *string `form:"title" validate:"omitempty,min=1,max=255"`
	Theme    *string `form:"theme" validate:"omitempty,min=1,max=255"`
	Details  *string `form:"details" validate:"omitempty,min=1"`
	DateTime *string `form:"date_time" validate:"omitempty,min=1"`
	Location *string `form:"location" validate:"omitempty,min=1,max=255"`
}
