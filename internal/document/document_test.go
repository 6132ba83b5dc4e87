package document

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesOrderAndNumbers(t *testing.T) {
	v, err := ParseString(`{"z":1,"a":{"y":12345678901234567890,"b":[true,null,"x"]},"m":1.50}`)
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	out, err := v.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":12345678901234567890,"b":[true,null,"x"]},"m":1.50}`, out)
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a":1} {"b":2}`, `[1,]`, `{"a" 1}`} {
		_, err := ParseString(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseObject(t *testing.T) {
	v, err := ParseObject("  ")
	require.NoError(t, err)
	assert.True(t, Equal(EmptyObject(), v))

	v, err = ParseObject("null")
	require.NoError(t, err)
	assert.True(t, v.IsObject())

	_, err = ParseObject(`[1,2]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected object, got array")
}

func TestEncode_NoHTMLEscaping(t *testing.T) {
	v := FromObject(NewObject().Set("linkTemplate", String("/q?a=1&b=<{{id}}>")))
	out, err := v.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"linkTemplate":"/q?a=1&b=<{{id}}>"}`, out)
}

func TestValue_JSONInterop(t *testing.T) {
	type row struct {
		ID       int   `json:"id"`
		Settings Value `json:"settings"`
	}
	var r row
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"settings":{"b":1,"a":2}}`), &r))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"settings":{"b":1,"a":2}}`, string(out))
}

func TestObject_DeleteAndSelect(t *testing.T) {
	obj := NewObject().
		Set("click", String("link")).
		Set("click_link_template", String("/x")).
		Set("title", String("t"))

	obj.Delete("click", "missing")
	assert.Equal(t, []string{"click_link_template", "title"}, obj.Keys())

	sel := obj.Select("title", "absent")
	assert.Equal(t, []string{"title"}, sel.Keys())

	sel.Set("title", String("changed"))
	got, _ := obj.Get("title")
	assert.True(t, Equal(String("t"), got), "Select must deep copy")
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name string
		docs []string
		want string
	}{
		{
			name: "later wins per leaf",
			docs: []string{`{"a":1,"b":{"c":1,"d":1}}`, `{"b":{"c":2},"e":3}`},
			want: `{"a":1,"b":{"c":2,"d":1},"e":3}`,
		},
		{
			name: "non-object replaces",
			docs: []string{`{"a":{"x":1}}`, `{"a":[1,2]}`},
			want: `{"a":[1,2]}`,
		},
		{
			name: "null replaces nested value",
			docs: []string{`{"a":{"x":1}}`, `{"a":null}`},
			want: `{"a":null}`,
		},
		{
			name: "empty object keeps non-empty",
			docs: []string{`{"column_settings":{"c1":{"x":1}}}`, `{"column_settings":{}}`},
			want: `{"column_settings":{"c1":{"x":1}}}`,
		},
		{
			name: "three-way precedence",
			docs: []string{`{"k":1}`, `{"k":2}`, `{"k":3}`},
			want: `{"k":3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := make([]Value, len(tt.docs))
			for i, d := range tt.docs {
				docs[i] = MustParse(d)
			}
			got := DeepMerge(docs...)
			if diff := cmp.Diff(MustParse(tt.want).Interface(), got.Interface()); diff != "" {
				t.Errorf("DeepMerge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeepMerge_DoesNotMutateInputs(t *testing.T) {
	left := MustParse(`{"a":{"b":1}}`)
	right := MustParse(`{"a":{"c":2}}`)

	_ = DeepMerge(left, right)

	assert.True(t, Equal(MustParse(`{"a":{"b":1}}`), left))
	assert.True(t, Equal(MustParse(`{"a":{"c":2}}`), right))
}

func TestDeepMerge_SkipsNullArguments(t *testing.T) {
	assert.True(t, DeepMerge().IsNull())
	assert.True(t, Equal(MustParse(`{"a":1}`), DeepMerge(Null(), MustParse(`{"a":1}`), Null())))
}

func TestStripEmpty(t *testing.T) {
	in := MustParse(`{"a":null,"b":{},"c":[],"d":{"e":{"f":null}},"g":[{},null,{"h":null}],"i":0,"j":"","k":false}`)
	want := MustParse(`{"g":[{},null,{}],"i":0,"j":"","k":false}`)

	got := StripEmpty(in)
	if diff := cmp.Diff(want.Interface(), got.Interface()); diff != "" {
		t.Errorf("StripEmpty() mismatch (-want +got):\n%s", diff)
	}
}

func TestStripAfterMerge(t *testing.T) {
	nonEmpty := MustParse(`{"column_settings":{"c1":{"click_behavior":{"type":"link"}}}}`)
	empty := MustParse(`{"column_settings":{}}`)

	got := StripEmpty(DeepMerge(nonEmpty, empty))
	assert.True(t, Equal(nonEmpty, got))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(MustParse(`{"a":1,"b":[1,2]}`), MustParse(`{"b":[1,2],"a":1.0}`)))
	assert.False(t, Equal(MustParse(`{"a":1}`), MustParse(`{"a":1,"b":null}`)))
	assert.False(t, Equal(MustParse(`[1,2]`), MustParse(`[2,1]`)))
	assert.False(t, Equal(MustParse(`"1"`), MustParse(`1`)))
	assert.True(t, Equal(Null(), MustParse(`null`)))
}

func TestLookupAndAsInt(t *testing.T) {
	v := MustParse(`{"a":{"b":{"c":42}}}`)
	c, ok := v.Lookup("a", "b", "c")
	require.True(t, ok)
	n, ok := c.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = v.Lookup("a", "missing")
	assert.False(t, ok)
}
