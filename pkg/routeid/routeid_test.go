package routeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	ids, err := Parse("4-9", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9}, ids)

	ids, err = Parse("4-9-17", 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9, 17}, ids)
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 2},
		{"4", 2},
		{"4-9-17", 2},
		{"4--9", 3},
		{"4-x", 2},
		{"0-9", 2},
		{"4-+9", 2},
		{"4-9-", 2},
	}
	for _, tc := range cases {
		_, err := Parse(tc.raw, tc.want)
		assert.ErrorIs(t, err, ErrMalformed, tc.raw)
	}
}

func TestParseTrailingUsesLastSegment(t *testing.T) {
	ids, err := ParseTrailing("4-9-17-201")
	require.NoError(t, err)
	assert.EqualValues(t, 201, Last(ids))

	ids, err = ParseTrailing("201")
	require.NoError(t, err)
	assert.EqualValues(t, 201, Last(ids))

	_, err = ParseTrailing("4-abc")
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Zero(t, Last(nil))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "4-9-17", Join(4, 9, 17))
	assert.Equal(t, "", Join())
}
