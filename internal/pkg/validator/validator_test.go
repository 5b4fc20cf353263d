package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	valid := []string{"", "00:00", "08:15", "23:59", "07:30:00"}
	invalid := []string{"24:00", "8:15", "08:60", "0815", "ab:cd"}
	for _, s := range valid {
		if !IsValidClockTime(s) {
			t.Errorf("IsValidClockTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClockTime(s) {
			t.Errorf("IsValidClockTime(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"Retardo justificado", "Falta justificada"}
	assert.True(t, IsInSlice("Falta justificada", slice))
	assert.False(t, IsInSlice("falta justificada", slice))
	assert.False(t, IsInSlice("", nil))
}

func TestYouTubeID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":          "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                         "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?feature=x&v=abc123#t=1": "abc123",
		"https://vimeo.com/123":                                "",
		"":                                                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, YouTubeID(in), in)
	}
}

type sampleRequest struct {
	Date     string `json:"incident_date" validate:"required,datetime=2006-01-02"`
	Entry    string `json:"entry_time" validate:"clock"`
	Comments string `json:"comments" validate:"max=5"`
}

func TestStruct_ReturnsValidationErrorsKeyedByJSONName(t *testing.T) {
	err := Struct(sampleRequest{Date: "02/01/2024", Entry: "25:00", Comments: "too long"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	m := verrs.ToMap()
	assert.Contains(t, m, "incident_date")
	assert.Contains(t, m, "entry_time")
	assert.Contains(t, m, "comments")
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sampleRequest{Date: "2024-01-02", Entry: "08:05"}))
}
