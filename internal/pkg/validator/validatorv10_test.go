package validator

import (
	"errors"
	"testing"
)

type sample struct {
	ToMail  string `json:"tomail" validate:"notblank,email"`
	Subject string `json:"subject" validate:"notblank"`
	NoTag   string `validate:"required"`
}

func TestV10ValidatorValidate(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	tests := []struct {
		name       string
		in         sample
		wantFields []string
	}{
		{
			name: "valid",
			in:   sample{ToMail: "a@b.com", Subject: "S", NoTag: "x"},
		},
		{
			name:       "blank values",
			in:         sample{ToMail: "   ", Subject: "\t", NoTag: ""},
			wantFields: []string{"tomail", "subject", "no_tag"},
		},
		{
			name:       "malformed email",
			in:         sample{ToMail: "not-an-email", Subject: "S", NoTag: "x"},
			wantFields: []string{"tomail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			// Act
			err := v.Validate(tt.in)

			// Assert
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected V10ValidationError, got %v", err)
			}
			if len(verr.Values()) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", verr.Values(), tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if verr.Values()[f] == "" {
					t.Fatalf("missing message for %q in %v", f, verr.Values())
				}
			}
		})
	}
}

func TestV10ValidatorNotBlankMessage(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	err = v.Validate(sample{ToMail: "a@b.com", Subject: " ", NoTag: "x"})

	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected V10ValidationError, got %v", err)
	}
	if got := verr.Values()["subject"]; got != "subject must not be blank" {
		t.Fatalf("subject message = %q", got)
	}
}
