package caption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "hours minutes seconds", input: "01:02:03.500", want: 3723.5},
		{name: "minutes seconds", input: "02:03.500", want: 123.5},
		{name: "bare seconds", input: "3.5", want: 3.5},
		{name: "comma decimal separator", input: "1:02:03,500", want: 3723.5},
		{name: "integer seconds", input: "42", want: 42},
		{name: "surrounding whitespace", input: " 00:00:01.000 ", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimecode(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseTimecode_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1:xx:03.5", "::", "1:2:3:4"} {
		_, err := ParseTimecode(input)
		require.Error(t, err, "input %q", input)
	}
}
