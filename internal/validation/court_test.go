package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trentd187/pickleball-directory/internal/apperror"
)

func validInput() CourtInput {
	return CourtInput{
		Name:              "Community Recreation Center",
		Address:           "123 Main Street",
		Hours:             "Open: 6 AM - 10 PM Daily",
		CourtsDescription: "4 outdoor courts, 2 indoor courts",
		Amenities:         "Equipment rental available",
		Phone:             "(555) 123-4567",
		Parking:           "Free parking available",
		Fees:              "$5 per person per day",
	}
}

func strPtr(s string) *string { return &s }

func asErrors(t *testing.T, err error) Errors {
	t.Helper()
	var verrs Errors
	require.True(t, errors.As(err, &verrs), "expected validation.Errors, got %v", err)
	return verrs
}

func TestCourtValid(t *testing.T) {
	out, err := Court(validInput())
	require.NoError(t, err)

	assert.Equal(t, "Community Recreation Center", out.Name)
	assert.Equal(t, "(555) 123-4567", out.Phone)
	assert.Nil(t, out.Picture)
}

func TestCourtTrimsFields(t *testing.T) {
	in := validInput()
	in.Name = "  Riverside Park \t"
	in.Fees = "\nFree "

	out, err := Court(in)
	require.NoError(t, err)
	assert.Equal(t, "Riverside Park", out.Name)
	assert.Equal(t, "Free", out.Fees)
}

func TestCourtEachRequiredField(t *testing.T) {
	fields := map[string]func(*CourtInput){
		"name":              func(in *CourtInput) { in.Name = "   " },
		"address":           func(in *CourtInput) { in.Address = "" },
		"hours":             func(in *CourtInput) { in.Hours = "\t" },
		"courtsDescription": func(in *CourtInput) { in.CourtsDescription = "" },
		"amenities":         func(in *CourtInput) { in.Amenities = " " },
		"phone":             func(in *CourtInput) { in.Phone = "" },
		"parking":           func(in *CourtInput) { in.Parking = "\n" },
		"fees":              func(in *CourtInput) { in.Fees = "" },
	}

	for field, blank := range fields {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			blank(&in)

			_, err := Court(in)
			verrs := asErrors(t, err)
			require.Len(t, verrs, 1)
			assert.Equal(t, field, verrs[0].Field)
			assert.Equal(t, apperror.KindMissingField, verrs[0].Kind)
			assert.Contains(t, verrs[0].String(), field+": ")
		})
	}
}

func TestCourtReportsEveryViolation(t *testing.T) {
	_, err := Court(CourtInput{Phone: "call me"})
	verrs := asErrors(t, err)

	assert.Equal(t, []string{
		"name", "address", "hours", "courtsDescription", "amenities", "phone", "parking", "fees",
	}, verrs.Fields())
	assert.Equal(t, apperror.KindInvalidFormat, verrs[5].Kind)
	assert.Equal(t, "name: Court name is required", verrs.Details()[0])
}

func TestCourtPhoneFormat(t *testing.T) {
	good := []string{"(555) 123-4567", "5551234567", "555 123 4567", "1-800-555-0100"}
	for _, phone := range good {
		in := validInput()
		in.Phone = phone
		_, err := Court(in)
		assert.NoError(t, err, phone)
	}

	bad := []string{"555-CALL-NOW", "555.123.4567", "+1 555 123 4567", "ext 12"}
	for _, phone := range bad {
		in := validInput()
		in.Phone = phone
		_, err := Court(in)
		verrs := asErrors(t, err)
		require.Len(t, verrs, 1, phone)
		assert.Equal(t, "phone", verrs[0].Field)
		assert.Equal(t, apperror.KindInvalidFormat, verrs[0].Kind)
		assert.Equal(t, phoneFormatMessage, verrs[0].Message)
	}
}

func TestCourtPicture(t *testing.T) {
	t.Run("inline reference passes through untouched", func(t *testing.T) {
		in := validInput()
		in.Picture = strPtr("image/png;base64,iVBORw0KGgo=")
		out, err := Court(in)
		require.NoError(t, err)
		require.NotNil(t, out.Picture)
		assert.Equal(t, "image/png;base64,iVBORw0KGgo=", *out.Picture)
	})

	t.Run("empty string is allowed", func(t *testing.T) {
		in := validInput()
		in.Picture = strPtr("")
		out, err := Court(in)
		require.NoError(t, err)
		require.NotNil(t, out.Picture)
		assert.Equal(t, "", *out.Picture)
	})

	t.Run("plain string is rejected", func(t *testing.T) {
		in := validInput()
		in.Picture = strPtr("court.jpg")
		_, err := Court(in)
		verrs := asErrors(t, err)
		require.Len(t, verrs, 1)
		assert.Equal(t, "picture", verrs[0].Field)
		assert.Equal(t, apperror.KindInvalidFormat, verrs[0].Kind)
	})
}

func TestErrorsMessage(t *testing.T) {
	verrs := Errors{
		{Field: "name", Kind: apperror.KindMissingField, Message: "Court name is required"},
		{Field: "fees", Kind: apperror.KindMissingField, Message: "Fee information is required"},
	}
	assert.Equal(t, "validation failed: name: Court name is required; fees: Fee information is required", verrs.Error())
}
