package caption

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSRT(t *testing.T) {
	got := RenderSRT([]Segment{
		{StartTime: 1, EndTime: 3.5, Duration: 2.5, Text: "Hello world"},
		{StartTime: 3723.5, EndTime: 3725, Duration: 1.5, Text: "Later on"},
	})

	want := "1\n00:00:01,000 --> 00:00:03,500\nHello world\n\n" +
		"2\n01:02:03,500 --> 01:02:05,000\nLater on\n\n"
	assert.Equal(t, want, got)
}

func TestRenderSRT_Empty(t *testing.T) {
	assert.Equal(t, "", RenderSRT(nil))
}
