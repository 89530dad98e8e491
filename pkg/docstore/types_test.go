package docstore_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/recipebox/pkg/docstore"
)

func TestRecipe_UnmarshalJSON_Splits_Known_And_Free_Form_Fields(t *testing.T) {
	t.Parallel()

	var got docstore.Recipe
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Soup",
		"ingredients": [{"name": "Salt", "quantity": "1", "unit": "tsp"}],
		"instructions": "Boil.",
		"tags": ["quick"]
	}`), &got))

	want := docstore.Recipe{
		Title: "Soup",
		Ingredients: []docstore.Ingredient{{
			Name:   "Salt",
			Fields: docstore.Fields{"quantity": json.RawMessage(`"1"`), "unit": json.RawMessage(`"tsp"`)},
		}},
		Fields: docstore.Fields{
			"instructions": json.RawMessage(`"Boil."`),
			"tags":         json.RawMessage(`["quick"]`),
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Unmarshal mismatch (-want +got):\n%s", diff)
	}
}

func TestRecipe_MarshalJSON_Always_Emits_Ingredients_And_Prefers_Known_Fields(t *testing.T) {
	t.Parallel()

	r := docstore.Recipe{
		Title:  "Soup",
		Fields: docstore.Fields{"title": json.RawMessage(`"Shadow"`), "serves": json.RawMessage(`4`)},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"Soup","ingredients":[],"serves":4}`, string(data))
}

func TestUser_Round_Trips_Unknown_Fields(t *testing.T) {
	t.Parallel()

	in := `{"username":"ada","password":"$2a$10$abc","created":"2024-01-01"}`

	var u docstore.User
	require.NoError(t, json.Unmarshal([]byte(in), &u))
	require.Equal(t, "ada", u.Username)
	require.Equal(t, "$2a$10$abc", u.Password)

	out, err := json.Marshal(u)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))
}

func TestIngredient_UnmarshalJSON_Rejects_Non_String_Name(t *testing.T) {
	t.Parallel()

	var ing docstore.Ingredient
	require.Error(t, json.Unmarshal([]byte(`{"name":12}`), &ing))
}

func TestFields_String_Reports_Non_String_Values_As_Absent(t *testing.T) {
	t.Parallel()

	f := docstore.Fields{"quantity": json.RawMessage(`2`)}

	_, ok := f.String("quantity")
	require.False(t, ok)

	require.NoError(t, f.Set("quantity", "2 cups"))

	got, ok := f.String("quantity")
	require.True(t, ok)
	require.Equal(t, "2 cups", got)
}
