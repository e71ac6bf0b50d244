package validate

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsSplitsAndTrims(t *testing.T) {
	t.Parallel()

	got, err := Claims("a, b, b, , c", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "b", "c"}, got)
}

func TestClaimsRejectsTooMany(t *testing.T) {
	t.Parallel()

	_, err := Claims("one, two, three, four, five, six", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Maximum 5 claims allowed per batch", err.Error())

	got, err := Claims("one, two, three, four, five", 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestClaimsRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := Claims("   ", 5)
	assert.EqualError(t, err, "Please enter claims to fact-check")

	_, err = Claims(" , ,, ", 5)
	assert.EqualError(t, err, "Please enter at least one claim")
}

func TestText(t *testing.T) {
	t.Parallel()

	got, err := Text("a claim", "  the moon is cheese ")
	require.NoError(t, err)
	assert.Equal(t, "the moon is cheese", got)

	_, err = Text("a claim", "\t\n")
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "a claim", verr.Field)
	assert.Equal(t, "Please enter a claim", verr.Message)
}

func TestURLAddsScheme(t *testing.T) {
	t.Parallel()

	got, err := URL(" example.com/path ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", got)

	got, err = URL("http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", got)

	_, err = URL("")
	assert.ErrorIs(t, err, ErrValidation)
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestFileChecksKindAndSize(t *testing.T) {
	t.Parallel()

	data := tinyPNG(t)

	mime, err := File(KindImage, data, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = File(KindVideo, data, 1<<20)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Please select a video file")

	_, err = File(KindImage, []byte("just some text"), 1<<20)
	require.ErrorIs(t, err, ErrValidation)

	_, err = File(KindImage, data, 10)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Image file must be less than 10 B")

	_, err = File(KindImage, nil, 0)
	assert.EqualError(t, err, "Please select an image to analyze")
}
