package action_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/cliche/internal/action"
)

const exportFixture = "(-) write $draft !2 +work @desk #3f0c6a4e-8a0e-4bd6-9a2e-7a1c1a0b9f11\n* story\n> (x) child\n"

func Test_Export_Omits_Absent_Fields_When_Only_Required_Set(t *testing.T) {
	t.Parallel()

	objs, err := action.ParseValue("(x) test\n")
	require.NoError(t, err)
	require.Len(t, objs, 1)

	assert.Equal(t, []string{"state", "name"}, objs[0].Keys(), "absent optionals must not appear as keys")

	state, ok := objs[0].Get("state")
	require.True(t, ok)
	assert.Equal(t, "Completed", state)

	_, ok = objs[0].Get("children")
	assert.False(t, ok, "children key should be absent without a child group")
}

func Test_Export_Marshals_JSON_In_Field_Order_When_Fully_Populated(t *testing.T) {
	t.Parallel()

	objs, err := action.ParseValue(exportFixture)
	require.NoError(t, err)

	got, err := json.Marshal(objs)
	require.NoError(t, err)

	want := `[{"state":"InProgress","name":"write","description":"draft","priority":2,` +
		`"context_list":["work","desk"],"id":"3f0c6a4e-8a0e-4bd6-9a2e-7a1c1a0b9f11",` +
		`"story":"story","children":[{"state":"Completed","name":"child"}]}]`
	assert.JSONEq(t, want, string(got))
	assert.Equal(t, want, string(got), "keys should keep export order")
}

func Test_Export_Writes_Dates_As_RFC3339_When_Set(t *testing.T) {
	t.Parallel()

	do := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	obj := action.ExportRoot(action.RootAction{
		Common: action.CommonActionProperties{State: action.NotStarted, Name: "a", DoDateTime: &do, CompletedDateTime: &do},
	})

	v, ok := obj.Get("do_date_time")
	require.True(t, ok)
	assert.Equal(t, "2025-03-01T09:30:00Z", v)
	assert.Equal(t, []string{"state", "name", "do_date_time", "completed_date_time"}, obj.Keys())
}

func Test_Export_Keeps_Empty_Children_When_Group_Present_But_Empty(t *testing.T) {
	t.Parallel()

	obj := action.ExportRoot(action.RootAction{
		Common:   action.CommonActionProperties{Name: "a"},
		Children: []action.ChildAction{},
	})

	got, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"state":"NotStarted","name":"a","children":[]}`, string(got))
}

func Test_Export_Marshals_YAML_In_Field_Order_When_Nested(t *testing.T) {
	t.Parallel()

	objs, err := action.ParseValue(exportFixture)
	require.NoError(t, err)

	out, err := yaml.Marshal(objs)
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &node))

	require.Equal(t, yaml.DocumentNode, node.Kind)
	seq := node.Content[0]
	require.Equal(t, yaml.SequenceNode, seq.Kind)
	require.Len(t, seq.Content, 1)

	root := seq.Content[0]
	assert.Equal(t,
		[]string{"state", "name", "description", "priority", "context_list", "id", "story", "children"},
		mappingKeys(root))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, 2, decoded[0]["priority"])
	assert.Equal(t, []any{"work", "desk"}, decoded[0]["context_list"])
}

func Test_Envelope_Puts_Options_Before_Actions_When_Options_Given(t *testing.T) {
	t.Parallel()

	doc, err := action.Parse("(x) a\n")
	require.NoError(t, err)

	got, err := json.Marshal(action.Envelope(doc, map[string]any{"format": "json", "all": true}))
	require.NoError(t, err)
	assert.Equal(t, `{"options":{"all":true,"format":"json"},"actions":[{"state":"Completed","name":"a"}]}`, string(got))

	got, err = json.Marshal(action.Envelope(doc, nil))
	require.NoError(t, err)
	assert.Equal(t, `{"actions":[{"state":"Completed","name":"a"}]}`, string(got))
}

func mappingKeys(n *yaml.Node) []string {
	var keys []string
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}

	return keys
}
