package ytdlp

import "context"

// Client is the abstraction the extraction pipeline depends on. It
// keeps yt-dlp behind an interface so tests can use a fake.
type Client interface {
	FetchMetadata(ctx context.Context, url string) (Metadata, error)
	ListTracks(ctx context.Context, url string) (Tracks, error)
}

// Metadata is the subset of the yt-dlp video dump the service needs.
type Metadata struct {
	Title    string  `json:"title"`
	ID       string  `json:"id"`
	Duration float64 `json:"duration"`
	Uploader string  `json:"uploader"`
}

// Track is one downloadable subtitle encoding for a language.
type Track struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// Tracks maps language codes to the available subtitle tracks,
// separated into manually authored and automatically generated ones.
type Tracks struct {
	Manual    map[string][]Track `json:"subtitles"`
	Automatic map[string][]Track `json:"automatic_captions"`
}

// videoDump mirrors the fields of the yt-dlp -J output this package
// reads. Subtitles and AutomaticCaptions are keyed by language code
// (e.g. "en", "en-orig").
type videoDump struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Duration          float64            `json:"duration"`
	Uploader          string             `json:"uploader"`
	Subtitles         map[string][]Track `json:"subtitles"`
	AutomaticCaptions map[string][]Track `json:"automatic_captions"`
}
