// Package images turns uploaded court pictures into inline image references.
//
// An inline image reference is a self-contained string of the form
//
//	<mime-type>;base64,<data>
//
// e.g. "image/png;base64,iVBORw0KGgo...". The picture travels inside the court record
// itself, so there is no separate file storage to keep in sync.
package images

import (
	"encoding/base64"
	"fmt"
	"mime"
	"regexp"
	"strings"

	"github.com/trentd187/pickleball-directory/internal/apperror"
)

// DefaultMaxBytes is the upload ceiling used when none is configured.
const DefaultMaxBytes int64 = 2 << 20

// dataScheme is the optional prefix browsers put in front of an inline reference
// ("data:image/png;base64,..."). We accept it on input so a client can send back
// exactly what it rendered.
const dataScheme = "data:"

// inlinePattern matches "<image mime>;base64,<standard base64>". The mime subtype allows
// the characters RFC 6838 permits (e.g. "svg+xml", "vnd.microsoft.icon").
var inlinePattern = regexp.MustCompile(`^image/[A-Za-z0-9][A-Za-z0-9!#$&^_.+-]*;base64,[A-Za-z0-9+/]+={0,2}$`)

// IsInlineReference reports whether s is a syntactically valid inline image
// reference, with or without a leading "data:". The payload is not decoded.
func IsInlineReference(s string) bool {
	return inlinePattern.MatchString(strings.TrimPrefix(s, dataScheme))
}

// Upload is a picture file received with a create or update request.
type Upload struct {
	Filename    string
	ContentType string // as declared by the client, e.g. "image/jpeg"
	Data        []byte
}

// Encoder converts uploads into inline references, enforcing the size ceiling
// and the image-only content type rule.
type Encoder struct {
	maxBytes int64
}

// NewEncoder returns an Encoder with the given ceiling; a non-positive value
// means DefaultMaxBytes.
func NewEncoder(maxBytes int64) *Encoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Encoder{maxBytes: maxBytes}
}

// MaxBytes returns the configured ceiling.
func (e *Encoder) MaxBytes() int64 { return e.maxBytes }

// Encode validates an upload and returns its inline reference.
// Rejections are InvalidFormat errors with a message meant for the client.
func (e *Encoder) Encode(u Upload) (string, error) {
	mediaType := normalizeMediaType(u.ContentType)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", apperror.New(apperror.KindInvalidFormat, "Picture must be an image file")
	}
	if len(u.Data) == 0 {
		return "", apperror.New(apperror.KindInvalidFormat, "Picture file is empty")
	}
	if int64(len(u.Data)) > e.maxBytes {
		return "", e.TooLarge()
	}
	return mediaType + ";base64," + base64.StdEncoding.EncodeToString(u.Data), nil
}

// TooLarge is the rejection for a picture over the ceiling.
func (e *Encoder) TooLarge() error {
	return apperror.New(apperror.KindInvalidFormat,
		fmt.Sprintf("Picture must be %s or smaller", formatSize(e.maxBytes)))
}

// Resolve picks the picture value for a create or update request:
//   - an upload wins and is encoded;
//   - otherwise a picture string from the body is passed through verbatim (validation
//     decides whether it is acceptable), as long as an inline reference decodes to no
//     more than the ceiling;
//   - otherwise nil, meaning the request said nothing about the picture.
func (e *Encoder) Resolve(upload *Upload, inline *string) (*string, error) {
	if upload != nil {
		ref, err := e.Encode(*upload)
		if err != nil {
			return nil, err
		}
		return &ref, nil
	}
	if inline != nil && IsInlineReference(*inline) && decodedLen(*inline) > e.maxBytes {
		return nil, e.TooLarge()
	}
	return inline, nil
}

// decodedLen is the byte size of an inline reference's payload once decoded.
func decodedLen(ref string) int64 {
	_, payload, _ := strings.Cut(ref, ";base64,")
	return int64(base64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload, "="))
}

// normalizeMediaType lower-cases the declared type and drops parameters such
// as "; charset=binary".
func normalizeMediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// formatSize renders a byte count the way the error message wants it ("2 MiB", "512 KiB").
func formatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MiB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KiB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
