package dto

type GalleryUploadInput struct {
	Title string `form:"title" validate:"max=255"`
}
