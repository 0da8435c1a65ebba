package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/profile-pages/internal/domain/user"
)

func ptr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		u    *user.User
		want string
	}{
		{"name set", &user.User{Username: ptr("alice"), Name: ptr("Alice Liddell")}, "Alice Liddell"},
		{"name nil", &user.User{Username: ptr("alice")}, "alice"},
		{"name empty", &user.User{Username: ptr("alice"), Name: ptr("")}, "alice"},
		{"nothing set", &user.User{}, ""},
		{"nil user", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.u.DisplayName())
		})
	}
}

func TestHandleAndBio(t *testing.T) {
	u := &user.User{Username: ptr("bob"), Bio: ptr("hi")}
	assert.Equal(t, "bob", u.Handle())
	assert.Equal(t, "hi", u.BioText())

	empty := &user.User{}
	assert.Empty(t, empty.Handle())
	assert.Empty(t, empty.BioText())
}
