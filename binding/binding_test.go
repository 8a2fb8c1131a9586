package binding

import (
	"encoding/json"
	"testing"
)

func testData(t *testing.T) any {
	t.Helper()
	var data any
	raw := `{"meta":{"author":"Herbert","year":1965},"messages":[{"content":"first"},{"content":"second"}]}`
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("解析测试数据失败: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := testData(t)
	cases := map[string]string{
		"by ${meta.author}":                "by Herbert",
		"${ meta.year }":                   "1965",
		"${messages[1].content}!":          "second!",
		"${meta.missing}":                  "${meta.missing}",
		"${meta.missing:-unknown}":         "unknown",
		"${meta.author:-unknown}":          "Herbert",
		"${messages[9].content:-}":         "",
		"plain text":                       "plain text",
		"${messages[0].content} / ${meta}": "first / map[author:Herbert year:1965]",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	if got := Interpolate("${a.b}", nil); got != "${a.b}" {
		t.Fatalf("placeholder should survive without data, got %q", got)
	}
	if got := Interpolate("${a.b:-x}", nil); got != "x" {
		t.Fatalf("fallback should apply without data, got %q", got)
	}
}

func TestLookup(t *testing.T) {
	data := testData(t)
	val, ok := Lookup(data, "messages[0].content")
	if !ok || val != "first" {
		t.Fatalf("unexpected lookup result %v %v", val, ok)
	}
	if _, ok := Lookup(data, "messages[x].content"); ok {
		t.Fatalf("non-numeric index should not resolve")
	}
	if _, ok := Lookup(data, "meta.author.name"); ok {
		t.Fatalf("descending into a string should fail")
	}
}

func TestLookupTypedValues(t *testing.T) {
	data := map[string]any{
		"names":  map[string]string{"Alice": "앨리스"},
		"grid":   []any{[]any{"a", "b"}, []any{"c"}},
		"rows":   []map[string]any{{"id": 7.0}},
		"tags":   []string{"rain", "night"},
		"absent": nil,
	}
	cases := map[string]any{
		"names.Alice": "앨리스",
		"grid[1][0]":  "c",
		"rows[0].id":  7.0,
		"tags[1]":     "night",
	}
	for path, want := range cases {
		got, ok := Lookup(data, path)
		if !ok || got != want {
			t.Fatalf("Lookup(%q) = %v, %v; want %v", path, got, ok, want)
		}
	}
	for _, path := range []string{"absent", "grid[2][0]", "tags[-1]", "grid..x", "rows[]", ""} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("Lookup(%q) should not resolve", path)
		}
	}
	if got := Interpolate("${rows[0].id} ${grid[0][1]}", data); got != "7 b" {
		t.Fatalf("unexpected interpolation %q", got)
	}
}
