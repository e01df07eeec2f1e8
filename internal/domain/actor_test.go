package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorCanMutate(t *testing.T) {
	review := Review{ID: "r1", BookID: "b1", UserID: "u1"}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"author", Actor{ID: "u1", Role: RoleUser}, true},
		{"admin non-author", Actor{ID: "u2", Role: RoleAdmin}, true},
		{"other user", Actor{ID: "u2", Role: RoleUser}, false},
		{"unauthenticated", Actor{}, false},
		{"unauthenticated admin role", Actor{Role: RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanMutate(review))
		})
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
