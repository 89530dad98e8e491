package cli_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/recipebox/internal/cli"
)

const emptyDB = `{"recipes":{},"pantry":{},"users":{}}`

const soupDB = `{
  "recipes": {
    "Soup": {"title": "Soup", "ingredients": [{"name": "Carrot", "quantity": "2"}, {"name": "Water"}], "serves": 4},
    "Carrot Cake": {"title": "Carrot Cake", "ingredients": [{"name": "Flour"}, {"name": "Carrot"}]}
  },
  "pantry": {"Salt": {"name": "Salt", "quantity": "1", "unit": "kg"}},
  "users": {}
}`

// Tests for init.

func Test_Init_Creates_Empty_Backing_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("init")

	cli.AssertContains(t, stdout, "Created "+c.DBPath())
	require.JSONEq(t, emptyDB, c.ReadDB())
}

func Test_Init_Refuses_Existing_Backing_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	stderr := c.MustFail("init")

	cli.AssertContains(t, stderr, "backing file already exists")
	require.JSONEq(t, soupDB, c.ReadDB())
}

func Test_Commands_Fail_When_Backing_File_Is_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	for _, args := range [][]string{
		{"find", "Soup", "-t"},
		{"show", "Soup"},
		{"pantry"},
	} {
		stderr := c.MustFail(args...)
		cli.AssertContains(t, stderr, "load failed")
	}
}

func Test_Commands_Fail_When_Backing_File_Is_Invalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(`{"recipes": [`)

	stderr := c.MustFail("show", "Soup")
	cli.AssertContains(t, stderr, "load failed")
}

// Tests for find.

func Test_Find_Matches_By_Mode_When_Invoked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "TitleSubstring", args: []string{"Carrot", "-t"}, want: "Carrot Cake"},
		{name: "Ingredients", args: []string{"Carrot", "-i"}, want: "Soup\nCarrot Cake"},
		{name: "Both", args: []string{"Carrot", "-t", "-i"}, want: "Soup\nCarrot Cake"},
		{name: "ExactTitle", args: []string{"Soup", "--title", "--exact"}, want: "Soup"},
		{name: "ExactTitleNoPrefix", args: []string{"Sou", "-t", "-e"}, want: ""},
		{name: "CaseSensitive", args: []string{"carrot", "-t", "-i"}, want: ""},
		{name: "ExactOnlyAppliesToTitle", args: []string{"Wat", "-i", "-e"}, want: "Soup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.WriteDB(soupDB)

			stdout := c.MustRun(append([]string{"find"}, tt.args...)...)
			require.Equal(t, tt.want, stdout)
		})
	}
}

func Test_Find_Requires_A_Mode_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	// No backing file: the mode is checked before the load.
	stderr := c.MustFail("find", "Soup")
	cli.AssertContains(t, stderr, "search needs --title, --ingredients, or both")
	cli.AssertNotContains(t, stderr, "load failed")
}

func Test_Find_JSON_Prints_Full_Recipes_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	stdout := c.MustRun("find", "Soup", "-t", "--json")

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Soup", got[0]["title"])
	require.InDelta(t, 4, got[0]["serves"], 0)
}

func Test_Find_JSON_Prints_Empty_Array_When_Nothing_Matches(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	stdout := c.MustRun("find", "Pie", "-t", "--json")
	require.Equal(t, "[]", stdout)
}

// Tests for show.

func Test_Show_Prints_Recipe_With_Unknown_Fields_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	stdout := c.MustRun("show", "Soup")

	require.JSONEq(t,
		`{"title":"Soup","ingredients":[{"name":"Carrot","quantity":"2"},{"name":"Water"}],"serves":4}`,
		stdout)
}

func Test_Show_Prints_Empty_Object_When_Title_Is_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	require.Equal(t, "{}", c.MustRun("show", "Pie"))
}

// Tests for add and edit.

func Test_Add_Keeps_Existing_Recipes_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	input := `{
		// Soup is already there
		"recipes": [
			{"title": "Stew", "ingredients": [{"name": "Beef"}]},
			{"title": "Soup", "ingredients": []},
		]
	}`

	stdout, stderr, code := c.RunWithInput(input, "add", "-")

	require.Equal(t, 0, code, stderr)
	cli.AssertContains(t, stdout, "Added 1 recipe(s).")
	cli.AssertContains(t, stderr, "warning: recipe already exists, not changed: Soup")

	cli.AssertContains(t, c.MustRun("show", "Soup"), "Carrot")
	cli.AssertContains(t, c.MustRun("show", "Stew"), "Beef")
}

func Test_Add_Reads_File_Relative_To_Work_Dir_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(emptyDB)
	c.WriteFile(filepath.Join("batches", "new.json"), `{"recipes": [{"title": "Pie", "ingredients": [{"name": "Apple"}]}]}`)

	stdout := c.MustRun("add", filepath.Join("batches", "new.json"))
	require.Equal(t, "Added 1 recipe(s).", stdout)

	require.Equal(t, "Pie", c.MustRun("find", "Apple", "-i"))
}

func Test_Add_Warns_On_Duplicate_Titles_In_Input_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(emptyDB)

	input := `{"recipes": [
		{"title": "Pie", "ingredients": [{"name": "Apple"}]},
		{"title": "Pie", "ingredients": [{"name": "Pear"}]}
	]}`

	stdout, stderr, code := c.RunWithInput(input, "add", "-")

	require.Equal(t, 0, code, stderr)
	cli.AssertContains(t, stdout, "Added 1 recipe(s).")
	cli.AssertContains(t, stderr, "duplicate title in input, first one kept: Pie")
	cli.AssertContains(t, c.MustRun("show", "Pie"), "Apple")
}

func Test_Add_Rejects_Invalid_Batch_Without_Writing_When_Invoked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "MissingTitle", input: `{"recipes": [{"ingredients": []}]}`, want: "recipe 0: invalid recipe: title is required"},
		{name: "MissingIngredientName", input: `{"recipes": [{"title": "Pie", "ingredients": [{"quantity": "1"}]}]}`, want: "ingredients[0].name is required"},
		{name: "NoRecipesKey", input: `{"pantry": {}}`, want: `missing "recipes" array`},
		{name: "NotJSON", input: `recipes`, want: "invalid recipe batch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.WriteDB(emptyDB)

			stdout, stderr, code := c.RunWithInput(tt.input, "add", "-")

			require.Equal(t, 1, code)
			require.Empty(t, stdout)
			cli.AssertContains(t, stderr, tt.want)
			require.JSONEq(t, emptyDB, c.ReadDB())
		})
	}
}

func Test_Edit_Overwrites_Existing_Recipes_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	input := `{"recipes": [{"title": "Soup", "ingredients": [{"name": "Leek"}]}]}`

	stdout := c.MustRunWithInput(input, "edit", "-")
	require.Equal(t, "Saved 1 recipe(s).", stdout)

	require.JSONEq(t, `{"title":"Soup","ingredients":[{"name":"Leek"}]}`, c.MustRun("show", "Soup"))

	// Replaced in place, so collection order is unchanged.
	require.Equal(t, "Soup\nCarrot Cake", c.MustRun("find", "o", "-t"))
}

// Tests for rm.

func Test_Rm_Deletes_Recipe_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	require.Equal(t, "Removed Soup", c.MustRun("rm", "Soup"))
	require.Equal(t, "{}", c.MustRun("show", "Soup"))
	require.Equal(t, "Carrot Cake", c.MustRun("find", "Carrot", "-t", "-i"))
}

func Test_Rm_Fails_And_Leaves_File_Untouched_When_Title_Is_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDB(soupDB)

	stderr := c.MustFail("rm", "Pie")

	cli.AssertContains(t, stderr, "recipe not found: Pie")
	require.Equal(t, soupDB, c.ReadDB())
}
