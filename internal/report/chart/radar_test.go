package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sixAxes() []string {
	return []string{"Business", "Data", "Organization", "Technology", "Process", "Compliance"}
}

func TestRadarPNG(t *testing.T) {
	r := Radar{
		Labels: sixAxes(),
		Series: []Series{
			{Name: "Respondent", Values: []float64{40, 70, 55, 100, 0, 85}},
			{Name: "Baseline", Values: []float64{65, 55, 60, 50, 58, 70}},
		},
		Size: 400,
	}

	out, err := r.PNG()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	again, err := r.PNG()
	require.NoError(t, err)
	assert.Equal(t, out, again, "rendering is deterministic")
}

func TestRadarPNG_ManySeriesAndClamping(t *testing.T) {
	var series []Series
	for i := 0; i < 5; i++ {
		series = append(series, Series{Name: "run", Values: []float64{-10, 50, 150}})
	}
	_, err := Radar{Labels: []string{"a", "b", "c"}, Series: series}.PNG()
	require.NoError(t, err)
}

func TestRadarPNG_Errors(t *testing.T) {
	_, err := Radar{}.PNG()
	assert.ErrorIs(t, err, errNoAxes)

	_, err = Radar{
		Labels: sixAxes(),
		Series: []Series{{Name: "short", Values: []float64{1, 2}}},
	}.PNG()
	assert.ErrorContains(t, err, `series "short" has 2 values for 6 axes`)
}
