package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestBuildFilterConditionsEmpty(t *testing.T) {
	conditions, args := buildFilterConditions(PokemonFilterParams{})
	assert.Empty(t, conditions, "no filter fields should produce no conditions")
	assert.Empty(t, args)
	assert.Equal(t, "", whereClause(conditions))
}

func TestBuildFilterConditionsEmptyStringsIgnored(t *testing.T) {
	conditions, args := buildFilterConditions(PokemonFilterParams{
		Name:  strPtr(""),
		Type1: strPtr(""),
	})
	assert.Empty(t, conditions, "empty strings impose no constraint")
	assert.Empty(t, args)
}

func TestBuildFilterConditionsAllFields(t *testing.T) {
	userID := int64(7)
	conditions, args := buildFilterConditions(PokemonFilterParams{
		Name:            strPtr("chu"),
		Type1:           strPtr("Electric"),
		Type2:           strPtr("Flying"),
		Legendary:       boolPtr(false),
		MinSpeed:        intPtr(50),
		MaxSpeed:        intPtr(120),
		FavoritesUserID: &userID,
	})

	require.Len(t, conditions, 7)
	assert.Equal(t, "name ILIKE $1", conditions[0])
	assert.Equal(t, "type1 = $2", conditions[1])
	assert.Equal(t, "type2 = $3", conditions[2])
	assert.Equal(t, "legendary = $4", conditions[3])
	assert.Equal(t, "speed >= $5", conditions[4])
	assert.Equal(t, "speed <= $6", conditions[5])
	assert.Equal(t, "id IN (SELECT pokemon_id FROM user_favorites WHERE user_id = $7)", conditions[6])

	require.Len(t, args, 7)
	assert.Equal(t, "%chu%", args[0], "name matches as substring")
	assert.Equal(t, "Electric", args[1])
	assert.Equal(t, "Flying", args[2])
	assert.Equal(t, false, args[3])
	assert.Equal(t, 50, args[4])
	assert.Equal(t, 120, args[5])
	assert.Equal(t, userID, args[6])
}

func TestBuildFilterConditionsArgNumberingSkipsAbsent(t *testing.T) {
	// When earlier fields are absent, later ones must still number their
	// placeholders consecutively from $1.
	conditions, args := buildFilterConditions(PokemonFilterParams{
		Legendary: boolPtr(true),
		MaxSpeed:  intPtr(95),
	})

	require.Len(t, conditions, 2)
	assert.Equal(t, "legendary = $1", conditions[0])
	assert.Equal(t, "speed <= $2", conditions[1])
	require.Len(t, args, 2)
	assert.Equal(t, true, args[0])
	assert.Equal(t, 95, args[1])
}

func TestWhereClause(t *testing.T) {
	assert.Equal(t, "", whereClause(nil))
	assert.Equal(t, " WHERE a = $1", whereClause([]string{"a = $1"}))
	assert.Equal(t, " WHERE a = $1 AND b = $2", whereClause([]string{"a = $1", "b = $2"}))
}
