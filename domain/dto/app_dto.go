package dto

import "mytube/domain/model"

// ReqNavigate selects a named navigation state.
type ReqNavigate struct {
	View string `json:"view" binding:"required"`
}

// ReqSearch submits a search query.
type ReqSearch struct {
	Query string `json:"query"`
}

// ReqSelectVideo opens the video-detail overlay.
type ReqSelectVideo struct {
	VideoID string `json:"video_id" binding:"required"`
}

// ReqComment posts a comment to a video thread.
type ReqComment struct {
	Text string `json:"text"`
}

// StateSnapshot is the full client-visible application state.
type StateSnapshot struct {
	View          model.View     `json:"view"`
	SelectedVideo *model.Video   `json:"selected_video,omitempty"`
	Videos        []model.Video  `json:"videos"`
	User          *model.User    `json:"user,omitempty"`
	Profile       *model.Profile `json:"profile,omitempty"`
	WatchHistory  []model.Video  `json:"watch_history"`
	WatchLater    []model.Video  `json:"watch_later"`
	LikedVideos   []model.Video  `json:"liked_videos"`
	Likes         map[string]int `json:"likes"`
	Dislikes      map[string]int `json:"dislikes"`
}
