package model

// Video represents one entry of the catalog as the player renders it.
// Identity is ID; everything else is display-ready and immutable once fetched.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Thumbnail string `json:"thumbnail"`
	Avatar    string `json:"avatar"`
	Views     string `json:"views"`
	Timestamp string `json:"timestamp"`
	VideoURL  string `json:"videoUrl"`
}

// Comment is an in-memory comment on a video. Comments live only for the
// duration of the client session and are never persisted.
type Comment struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
}

// View is one of the named navigation states of the application.
type View string

const (
	ViewHome    View = "home"
	ViewExplore View = "explore"
	ViewLibrary View = "library"
	ViewHistory View = "history"
	ViewLiked   View = "liked"
	ViewSearch  View = "search"
)

// Valid reports whether v is one of the named navigation states.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewExplore, ViewLibrary, ViewHistory, ViewLiked, ViewSearch:
		return true
	}
	return false
}
