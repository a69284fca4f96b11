package validate_test

import (
	"testing"

	"kamaru/internal/domain/errs"
	"kamaru/internal/lib/validate"

	"github.com/stretchr/testify/assert"
)

type input struct {
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required,max=5"`
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,min=2"`
}

func TestStruct(t *testing.T) {
	short := "x"

	tests := []struct {
		name    string
		in      input
		wantMsg string
	}{
		{name: "valid", in: input{Email: "a@b.co", Username: "bob"}},
		{name: "missing email", in: input{Username: "bob"}, wantMsg: "email is required"},
		{name: "bad email", in: input{Email: "nope", Username: "bob"}, wantMsg: "email must be a valid email address"},
		{name: "too long", in: input{Email: "a@b.co", Username: "robert"}, wantMsg: "username must be at most 5 characters"},
		{name: "optional too short", in: input{Email: "a@b.co", Username: "bob", Nickname: &short}, wantMsg: "nickname must be at least 2 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			assert.True(t, errs.Is(err, errs.KindValidation))
			assert.Equal(t, tt.wantMsg, errs.MessageOf(err))
		})
	}
}
