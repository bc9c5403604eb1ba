package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFeatures(id string) AudioFeatures {
	return AudioFeatures{
		TrackID:          id,
		Danceability:     "0.735",
		Energy:           "0.578",
		Key:              "5",
		Loudness:         "-11.84",
		Mode:             "0",
		Speechiness:      "0.0461",
		Acousticness:     "0.514",
		Instrumentalness: "0.0902",
		Liveness:         "0.159",
		Valence:          "0.624",
		Tempo:            "98.002",
		DurationMs:       "255349",
		TimeSignature:    "4",
	}
}

func TestNumberInt(t *testing.T) {
	tests := []struct {
		name    string
		in      Number
		want    int
		wantErr bool
	}{
		{name: "integer", in: "5", want: 5},
		{name: "integral float", in: "4.0", want: 4},
		{name: "padded", in: " 7 ", want: 7},
		{name: "negative", in: "-1", want: -1},
		{name: "fraction rejected", in: "5.5", wantErr: true},
		{name: "text rejected", in: "five", wantErr: true},
		{name: "empty rejected", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Int()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCast)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberFloat64(t *testing.T) {
	got, err := Number("0.735").Float64()
	require.NoError(t, err)
	assert.InDelta(t, 0.735, got, 1e-12)

	got, err = FloatNumber(98.002).Float64()
	require.NoError(t, err)
	assert.InDelta(t, 98.002, got, 1e-12)

	_, err = Number("n/a").Float64()
	assert.ErrorIs(t, err, ErrCast)
}

func TestAudioFeaturesCast(t *testing.T) {
	raw := validFeatures("T1")
	raw.Key = IntNumber(5)
	raw.TimeSignature = IntNumber(4)

	row, err := raw.Cast()
	require.NoError(t, err)

	assert.Equal(t, "T1", row.TrackID)
	assert.Equal(t, 5, row.Key)
	assert.Equal(t, 4, row.TimeSignature)
	assert.Equal(t, 255349, row.DurationMs)
	assert.InDelta(t, 0.735, row.Danceability, 1e-12)
	assert.InDelta(t, -11.84, row.Loudness, 1e-12)
	assert.InDelta(t, 98.002, row.Tempo, 1e-12)
}

func TestAudioFeaturesCastFailure(t *testing.T) {
	raw := validFeatures("T9")
	raw.TimeSignature = "4/4"

	_, err := raw.Cast()
	require.ErrorIs(t, err, ErrCast)
	assert.Contains(t, err.Error(), "T9")
	assert.Contains(t, err.Error(), "time_signature")

	raw = validFeatures("T9")
	raw.Energy = ""
	_, err = raw.Cast()
	require.ErrorIs(t, err, ErrCast)
	assert.Contains(t, err.Error(), "energy")
}
