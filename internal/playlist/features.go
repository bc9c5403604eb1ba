package playlist

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrCast is returned when an audio feature value cannot be converted to its column type.
var ErrCast = errors.New("cannot cast audio feature")

// Number is a raw numeric value as delivered by the feature source. It may hold
// an integer, a float or a numeric string.
type Number string

// FloatNumber formats f as a Number.
func FloatNumber(f float64) Number {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// IntNumber formats i as a Number.
func IntNumber(i int) Number {
	return Number(strconv.Itoa(i))
}

// Float64 parses n as a float.
func (n Number) Float64() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a float", ErrCast, string(n))
	}
	return f, nil
}

// Int parses n as an integer. Integral floats such as "4.0" are accepted;
// fractional values are rejected rather than truncated.
func (n Number) Int() (int, error) {
	s := strings.TrimSpace(string(n))
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrCast, string(n))
	}
	return int(f), nil
}

// AudioFeatures is the feature vector of one track before casting.
type AudioFeatures struct {
	TrackID          string
	Danceability     Number
	Energy           Number
	Key              Number
	Loudness         Number
	Mode             Number
	Speechiness      Number
	Acousticness     Number
	Instrumentalness Number
	Liveness         Number
	Valence          Number
	Tempo            Number
	DurationMs       Number
	TimeSignature    Number
}

// FeatureRow is a cast feature vector.
type FeatureRow struct {
	TrackID          string
	Danceability     float64
	Energy           float64
	Key              int
	Loudness         float64
	Mode             int
	Speechiness      float64
	Acousticness     float64
	Instrumentalness float64
	Liveness         float64
	Valence          float64
	Tempo            float64
	DurationMs       int
	TimeSignature    int
}

// Cast converts every raw field to its column type. The first failing field
// aborts the conversion.
func (a AudioFeatures) Cast() (FeatureRow, error) {
	row := FeatureRow{TrackID: a.TrackID}

	floats := []struct {
		name string
		src  Number
		dst  *float64
	}{
		{"danceability", a.Danceability, &row.Danceability},
		{"energy", a.Energy, &row.Energy},
		{"loudness", a.Loudness, &row.Loudness},
		{"speechiness", a.Speechiness, &row.Speechiness},
		{"acousticness", a.Acousticness, &row.Acousticness},
		{"instrumentalness", a.Instrumentalness, &row.Instrumentalness},
		{"liveness", a.Liveness, &row.Liveness},
		{"valence", a.Valence, &row.Valence},
		{"tempo", a.Tempo, &row.Tempo},
	}
	for _, f := range floats {
		v, err := f.src.Float64()
		if err != nil {
			return FeatureRow{}, fmt.Errorf("track %s field %s: %w", a.TrackID, f.name, err)
		}
		*f.dst = v
	}

	ints := []struct {
		name string
		src  Number
		dst  *int
	}{
		{"key", a.Key, &row.Key},
		{"mode", a.Mode, &row.Mode},
		{"duration_ms", a.DurationMs, &row.DurationMs},
		{"time_signature", a.TimeSignature, &row.TimeSignature},
	}
	for _, f := range ints {
		v, err := f.src.Int()
		if err != nil {
			return FeatureRow{}, fmt.Errorf("track %s field %s: %w", a.TrackID, f.name, err)
		}
		*f.dst = v
	}

	return row, nil
}
