package models

type Stats struct {
	TotalEvents       int64 `json:"total_events"`
	TotalParticipants int64 `json:"total_participants"`
	TotalUsers        int64 `json:"total_users"`
	TotalVideos       int64 `json:"total_videos"`
	TotalGalleryItems int64 `json:"total_gallery_items"`
	TotalSubscribers  int64 `json:"total_subscribers"`
}
