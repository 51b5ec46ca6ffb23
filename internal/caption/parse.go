package caption

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/awsaruna451/onetoolsbox-be/pkg/log"
)

// Parse dispatches raw subtitle payload text to the parser matching the
// source encoding tag.
func Parse(format, raw string) ([]Segment, error) {
	switch format {
	case FormatVTT:
		return ParseVTT(raw), nil
	case FormatSRV3, FormatSRV1:
		return ParseSRV(raw)
	case FormatJSON3:
		return ParseJSON3(raw)
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
}

// ParseVTT parses cue-block subtitles: a line containing "-->" opens a
// cue, the following non-blank lines are its text. Cues with bad time
// codes are skipped rather than failing the whole payload.
func ParseVTT(raw string) []Segment {
	segments := make([]Segment, 0)
	lines := strings.Split(raw, "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "-->") {
			i++
			continue
		}

		parts := strings.SplitN(line, "-->", 2)
		if len(parts) != 2 {
			i++
			continue
		}

		start, err := ParseTimecode(strings.TrimSpace(parts[0]))
		if err != nil {
			log.Debug("Skipping cue with bad start time: %v", err)
			i++
			continue
		}
		// Some variants append styling directives after the end
		// timestamp; only the first token is the time code.
		endToken := strings.Fields(strings.TrimSpace(parts[1]))
		if len(endToken) == 0 {
			i++
			continue
		}
		end, err := ParseTimecode(endToken[0])
		if err != nil {
			log.Debug("Skipping cue with bad end time: %v", err)
			i++
			continue
		}

		textLines := make([]string, 0, 2)
		i++
		for i < len(lines) {
			text := strings.TrimSpace(lines[i])
			if text == "" || strings.Contains(text, "-->") {
				break
			}
			textLines = append(textLines, text)
			i++
		}

		text := strings.Join(textLines, " ")
		if strings.TrimSpace(text) != "" {
			segments = append(segments, Segment{
				StartTime: start,
				EndTime:   end,
				Duration:  end - start,
				Text:      text,
			})
		}
	}

	return segments
}

type srvText struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// ParseSRV parses the XML-based srv formats: every <text> element with
// start/dur attributes becomes one segment. Malformed XML fails the
// whole payload.
func ParseSRV(raw string) ([]Segment, error) {
	segments := make([]Segment, 0)
	decoder := xml.NewDecoder(strings.NewReader(raw))

	for {
		tok, err := decoder.Token()
		if tok == nil {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse SRV captions: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "text" {
			continue
		}

		var elem srvText
		if err := decoder.DecodeElement(&elem, &start); err != nil {
			return nil, fmt.Errorf("failed to parse SRV captions: %w", err)
		}

		startTime, err := attrSeconds(elem.Start)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SRV captions: %w", err)
		}
		duration, err := attrSeconds(elem.Dur)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SRV captions: %w", err)
		}

		if strings.TrimSpace(elem.Body) == "" {
			continue
		}
		segments = append(segments, Segment{
			StartTime: startTime,
			EndTime:   startTime + duration,
			Duration:  duration,
			Text:      elem.Body,
		})
	}

	return segments, nil
}

// attrSeconds parses a numeric XML attribute, treating absence as zero.
func attrSeconds(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

type json3Document struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	TStartMs    float64    `json:"tStartMs"`
	DDurationMs float64    `json:"dDurationMs"`
	Segs        []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// ParseJSON3 parses the JSON event-stream format. Only events carrying
// a segs array produce segments; the text is the concatenation of the
// utf8 fields. Malformed JSON fails the whole payload.
func ParseJSON3(raw string) ([]Segment, error) {
	var doc json3Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON3 captions: %w", err)
	}

	segments := make([]Segment, 0, len(doc.Events))
	for _, event := range doc.Events {
		if event.Segs == nil {
			continue
		}

		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := sb.String()
		if strings.TrimSpace(text) == "" {
			continue
		}

		start := event.TStartMs / 1000
		duration := event.DDurationMs / 1000
		segments = append(segments, Segment{
			StartTime: start,
			EndTime:   start + duration,
			Duration:  duration,
			Text:      text,
		})
	}

	return segments, nil
}
