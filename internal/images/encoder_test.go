package images

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trentd187/pickleball-directory/internal/apperror"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestEncodeImage(t *testing.T) {
	enc := NewEncoder(0)

	ref, err := enc.Encode(Upload{Filename: "court.png", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)

	assert.Equal(t, "image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader), ref)
	assert.True(t, IsInlineReference(ref))
}

func TestEncodeStripsParameters(t *testing.T) {
	enc := NewEncoder(0)

	ref, err := enc.Encode(Upload{ContentType: "Image/JPEG; charset=binary", Data: []byte("jpeg")})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg;base64,anBlZw==", ref)
}

func TestEncodeRejectsNonImage(t *testing.T) {
	enc := NewEncoder(0)

	for _, ct := range []string{"application/pdf", "text/plain", ""} {
		_, err := enc.Encode(Upload{ContentType: ct, Data: []byte("data")})
		require.Error(t, err, ct)
		assert.Equal(t, apperror.KindInvalidFormat, apperror.KindOf(err))
		assert.Contains(t, err.Error(), "must be an image")
	}
}

func TestEncodeRejectsOversize(t *testing.T) {
	enc := NewEncoder(1024)

	_, err := enc.Encode(Upload{ContentType: "image/png", Data: bytes.Repeat([]byte{1}, 1025)})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidFormat, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "1 KiB or smaller")

	_, err = enc.Encode(Upload{ContentType: "image/png", Data: bytes.Repeat([]byte{1}, 1024)})
	assert.NoError(t, err)
}

func TestDefaultCeilingIsTwoMiB(t *testing.T) {
	enc := NewEncoder(-1)
	assert.EqualValues(t, 2*1024*1024, enc.MaxBytes())

	_, err := enc.Encode(Upload{ContentType: "image/gif", Data: make([]byte, 2*1024*1024+1)})
	assert.ErrorContains(t, err, "2 MiB or smaller")
}

func TestEncodeRejectsEmpty(t *testing.T) {
	_, err := NewEncoder(0).Encode(Upload{ContentType: "image/png"})
	assert.ErrorContains(t, err, "empty")
}

func TestResolve(t *testing.T) {
	enc := NewEncoder(0)

	t.Run("upload wins over inline string", func(t *testing.T) {
		inline := "image/gif;base64,R0lGOD=="
		got, err := enc.Resolve(&Upload{ContentType: "image/png", Data: pngHeader}, &inline)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Contains(t, *got, "image/png;base64,")
	})

	t.Run("inline string used verbatim", func(t *testing.T) {
		inline := "data:image/gif;base64,R0lGOD=="
		got, err := enc.Resolve(nil, &inline)
		require.NoError(t, err)
		assert.Same(t, &inline, got)
	})

	t.Run("nothing supplied", func(t *testing.T) {
		got, err := enc.Resolve(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("bad upload", func(t *testing.T) {
		_, err := enc.Resolve(&Upload{ContentType: "text/html", Data: []byte("<p>")}, nil)
		assert.Error(t, err)
	})
}

func TestResolveInlineCeiling(t *testing.T) {
	enc := NewEncoder(4)

	atCeiling := "image/png;base64,AAAAAA==" // 4 bytes decoded
	got, err := enc.Resolve(nil, &atCeiling)
	require.NoError(t, err)
	assert.Equal(t, atCeiling, *got)

	overCeiling := "data:image/png;base64,AAAAAAA=" // 5 bytes decoded
	_, err = enc.Resolve(nil, &overCeiling)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidFormat, apperror.KindOf(err))
	assert.Equal(t, "Picture must be 4 bytes or smaller", err.Error())

	// Anything that isn't an inline reference is left for validation to reject.
	plain := "court-photo-taken-at-dawn.jpg"
	got, err = enc.Resolve(nil, &plain)
	require.NoError(t, err)
	assert.Equal(t, plain, *got)
}

func TestIsInlineReference(t *testing.T) {
	valid := []string{
		"image/png;base64,iVBORw0KGgo=",
		"data:image/jpeg;base64,/9j/4AAQ",
		"image/svg+xml;base64,PHN2Zz4=",
	}
	for _, s := range valid {
		assert.True(t, IsInlineReference(s), s)
	}

	invalid := []string{
		"",
		"court.jpg",
		"https://example.com/court.png",
		"text/plain;base64,aGk=",
		"image/png;base64,",
		"image/png,iVBORw0KGgo=",
		"image/png;base64,not base64!",
	}
	for _, s := range invalid {
		assert.False(t, IsInlineReference(s), s)
	}
}
