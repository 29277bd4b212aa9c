package domain

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareByName_IgnoresCase(t *testing.T) {
	users := []User{{ID: "1", Name: "bob"}, {ID: "2", Name: "Alice"}, {ID: "3", Name: "alice"}, {ID: "4", Name: "Carol"}}
	slices.SortStableFunc(users, CompareByName)

	var ids []string
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids)
	assert.Zero(t, CompareByName(User{Name: "Sam"}, User{Name: "Sam"}))
}
