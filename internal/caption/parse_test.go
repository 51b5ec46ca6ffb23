package caption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVTT_SingleCue(t *testing.T) {
	segments := ParseVTT("00:00:01.000 --> 00:00:03.000\nHello\nworld\n\n")

	require.Len(t, segments, 1)
	assert.InDelta(t, 1.0, segments[0].StartTime, 1e-9)
	assert.InDelta(t, 3.0, segments[0].EndTime, 1e-9)
	assert.InDelta(t, 2.0, segments[0].Duration, 1e-9)
	assert.Equal(t, "Hello world", segments[0].Text)
}

func TestParseVTT_HeaderAndStylingDirectives(t *testing.T) {
	raw := "WEBVTT\nKind: captions\nLanguage: en\n\n" +
		"00:00:01.000 --> 00:00:03.000 align:start position:0%\nfirst cue\n\n" +
		"00:00:03.000 --> 00:00:05.500\nsecond cue\n"

	segments := ParseVTT(raw)

	require.Len(t, segments, 2)
	assert.Equal(t, "first cue", segments[0].Text)
	assert.InDelta(t, 3.0, segments[0].EndTime, 1e-9)
	assert.Equal(t, "second cue", segments[1].Text)
	assert.InDelta(t, 5.5, segments[1].EndTime, 1e-9)
}

func TestParseVTT_BackToBackCues(t *testing.T) {
	// No blank line between a cue's text and the next cue line.
	raw := "00:00:01.000 --> 00:00:02.000\none\n00:00:02.000 --> 00:00:03.000\ntwo\n"

	segments := ParseVTT(raw)

	require.Len(t, segments, 2)
	assert.Equal(t, "one", segments[0].Text)
	assert.Equal(t, "two", segments[1].Text)
}

func TestParseVTT_SkipsCuesWithBadTimecodes(t *testing.T) {
	raw := "bogus --> 00:00:03.000\ndropped\n\n" +
		"00:00:03.000 --> later\nalso dropped\n\n" +
		"00:00:05.000 --> 00:00:06.000\nkept\n"

	segments := ParseVTT(raw)

	require.Len(t, segments, 1)
	assert.Equal(t, "kept", segments[0].Text)
}

func TestParseVTT_DropsEmptyCues(t *testing.T) {
	segments := ParseVTT("00:00:01.000 --> 00:00:02.000\n\n00:00:02.000 --> 00:00:03.000\ntext\n")

	require.Len(t, segments, 1)
	assert.Equal(t, "text", segments[0].Text)
}

func TestParseSRV(t *testing.T) {
	raw := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="1.5" dur="2.5">Hello there</text>
  <text start="4" dur="1">General</text>
  <text start="5"></text>
</transcript>`

	segments, err := ParseSRV(raw)
	require.NoError(t, err)

	require.Len(t, segments, 2)
	assert.InDelta(t, 1.5, segments[0].StartTime, 1e-9)
	assert.InDelta(t, 4.0, segments[0].EndTime, 1e-9)
	assert.InDelta(t, 2.5, segments[0].Duration, 1e-9)
	assert.Equal(t, "Hello there", segments[0].Text)
	assert.InDelta(t, 5.0, segments[1].EndTime, 1e-9)
}

func TestParseSRV_MissingAttributesDefaultToZero(t *testing.T) {
	segments, err := ParseSRV(`<transcript><text>floating</text></transcript>`)
	require.NoError(t, err)

	require.Len(t, segments, 1)
	assert.Zero(t, segments[0].StartTime)
	assert.Zero(t, segments[0].EndTime)
	assert.Zero(t, segments[0].Duration)
}

func TestParseSRV_MalformedXML(t *testing.T) {
	_, err := ParseSRV(`<transcript><text start="1">broken`)
	require.Error(t, err)
}

func TestParseJSON3(t *testing.T) {
	raw := `{"events":[
		{"tStartMs":1000,"dDurationMs":2000,"segs":[{"utf8":"Hello "},{"utf8":"world"}]},
		{"tStartMs":5000,"dDurationMs":1000},
		{"tStartMs":8000,"dDurationMs":500,"segs":[{"utf8":"\n"}]}
	]}`

	segments, err := ParseJSON3(raw)
	require.NoError(t, err)

	require.Len(t, segments, 1)
	assert.InDelta(t, 1.0, segments[0].StartTime, 1e-9)
	assert.InDelta(t, 3.0, segments[0].EndTime, 1e-9)
	assert.InDelta(t, 2.0, segments[0].Duration, 1e-9)
	assert.Equal(t, "Hello world", segments[0].Text)
}

func TestParseJSON3_MalformedJSON(t *testing.T) {
	_, err := ParseJSON3(`{"events":[`)
	require.Error(t, err)
}

func TestParse_DispatchesByFormat(t *testing.T) {
	vtt, err := Parse(FormatVTT, "00:00:01.000 --> 00:00:02.000\nhi there\n")
	require.NoError(t, err)
	require.Len(t, vtt, 1)

	srv, err := Parse(FormatSRV1, `<transcript><text start="0" dur="1">x</text></transcript>`)
	require.NoError(t, err)
	require.Len(t, srv, 1)

	_, err = Parse("ass", "whatever")
	require.Error(t, err)
}

func TestParsers_NeverReturnEmptyText(t *testing.T) {
	inputs := map[string][]Segment{}

	inputs["vtt"] = ParseVTT("00:00:01.000 --> 00:00:02.000\n   \n\n00:00:02.000 --> 00:00:03.000\nok then\n")
	srv, err := ParseSRV(`<transcript><text start="0" dur="1">   </text><text start="1" dur="1">fine</text></transcript>`)
	require.NoError(t, err)
	inputs["srv"] = srv
	json3, err := ParseJSON3(`{"events":[{"tStartMs":0,"dDurationMs":100,"segs":[{"utf8":"  "}]},{"tStartMs":100,"dDurationMs":100,"segs":[{"utf8":"yes"}]}]}`)
	require.NoError(t, err)
	inputs["json3"] = json3

	for name, segments := range inputs {
		for _, segment := range segments {
			assert.NotEqual(t, "", strings.TrimSpace(segment.Text), name)
		}
	}
}
