package dto

type VideoInput struct {
	Title      string `json:"title" validate:"required,max=255"`
	YoutubeURL string `json:"youtube_url" validate:"required,url"`
}
