package caption

// Source encoding tags as delivered by YouTube. Distinct from the
// requested output format (txt/srt/json), which only shapes the
// response.
const (
	FormatVTT   = "vtt"
	FormatSRV3  = "srv3"
	FormatSRV1  = "srv1"
	FormatJSON3 = "json3"
)

// Supported reports whether a source encoding tag has a parser.
func Supported(format string) bool {
	switch format {
	case FormatVTT, FormatSRV3, FormatSRV1, FormatJSON3:
		return true
	default:
		return false
	}
}

// Segment is one timed caption cue. Times are seconds;
// EndTime == StartTime + Duration within floating-point tolerance.
// Text is non-empty after trimming.
type Segment struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
	Text      string  `json:"text"`
}

// Set is the result of one extraction: the ordered segments plus the
// video metadata they came from. A Set is never mutated after creation.
type Set struct {
	VideoTitle    string    `json:"video_title"`
	VideoID       string    `json:"video_id"`
	VideoDuration float64   `json:"video_duration"`
	Format        string    `json:"format"`
	TotalCaptions int       `json:"total_captions"`
	Captions      []Segment `json:"captions"`
}
