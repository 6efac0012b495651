package spotify

import "github.com/aharlow/nowbar/internal/playback"

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a Spotify artist as returned by the player endpoints.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a Spotify album as returned by the player endpoints.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
	URI    string  `json:"uri"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// Track represents a Spotify track.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	ExternalURLs externalURLs `json:"external_urls"`
	DurationMS   int          `json:"duration_ms"`
	URI          string       `json:"uri"`
}

// Normalize converts an upstream track into the client-facing model, applying
// the default duration when the upstream omits one.
func (t Track) Normalize() playback.Track {
	artists := make([]playback.Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, playback.Artist{Name: a.Name})
	}

	duration := t.DurationMS
	if duration == 0 {
		duration = playback.DefaultDurationMs
	}

	return playback.Track{
		ID:          t.ID,
		Name:        t.Name,
		Artists:     artists,
		Album:       playback.Album{Name: t.Album.Name},
		ExternalURL: t.ExternalURLs.Spotify,
		DurationMs:  duration,
	}
}

// CurrentlyPlaying represents the /me/player/currently-playing response.
//
// Item is a pointer because Spotify reports null when playback context is
// unavailable (private sessions, podcasts in some markets).
type CurrentlyPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	Item       *Track `json:"item"`
	ProgressMs int    `json:"progress_ms"`
	Timestamp  int64  `json:"timestamp"`
}

// RecentTrack represents one item of the recently-played listing.
type RecentTrack struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

// RecentlyPlayed represents the /me/player/recently-played response.
type RecentlyPlayed struct {
	Items []RecentTrack `json:"items"`
}
