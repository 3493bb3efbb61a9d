package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	conversions := CreateConversions("foo-bar", "baz-qux")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"literal", "module github.com/org/foo-bar", "module github.com/org/baz-qux"},
		{"joined", "package foobar", "package bazqux"},
		{"snake", "FOO := foo_bar_value", "FOO := baz_qux_value"},
		{"camel", "var fooBar = 1", "var bazQux = 1"},
		{"pascal", "type FooBar struct{}", "type BazQux struct{}"},
		{"all forms", "foo-bar foobar foo_bar fooBar FooBar", "baz-qux bazqux baz_qux bazQux BazQux"},
		{"every occurrence", "fooBar(fooBar)", "bazQux(bazQux)"},
		{"untouched", "nothing to see", "nothing to see"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Convert(conversions, tt.input))
		})
	}
}

func TestConvertAppliesRulesInOrder(t *testing.T) {
	// The second rule sees the output of the first.
	conversions := Conversions{{From: "a", To: "b"}, {From: "b", To: "c"}}
	assert.Equal(t, "cc", Convert(conversions, "ab"))
}

func TestConvertSkipsEmptyPattern(t *testing.T) {
	assert.Equal(t, "abc", Convert(Conversions{{From: "", To: "x"}}, "abc"))
}

func TestConvertIdempotent(t *testing.T) {
	pairs := [][2]string{
		{"foo-bar", "baz-qux"},
		{"go-template", "my-service"},
		{"foo", "bar"},
		{"template", "widget"},
	}
	inputs := []string{
		"",
		"foo-bar foobar foo_bar fooBar FooBar",
		"import \"github.com/org/go-template/pkg/goTemplate\"",
		"type Template struct{ template string }",
		"foo_foo-bar and foofoo-bar",
		"no identifiers here",
	}

	for _, pair := range pairs {
		conversions := CreateConversions(pair[0], pair[1])
		require.NoError(t, conversions.Validate(), "%v", pair)

		for _, input := range inputs {
			once := Convert(conversions, input)
			assert.Equal(t, once, Convert(conversions, once), "pair %v input %q", pair, input)
		}
	}
}

func TestConversionsValidate(t *testing.T) {
	t.Run("safe set", func(t *testing.T) {
		require.NoError(t, CreateConversions("foo-bar", "baz-qux").Validate())
	})

	t.Run("replacement contains its own pattern", func(t *testing.T) {
		err := CreateConversions("foo", "foo-extra").Validate()
		require.ErrorIs(t, err, ErrConversionOverlap)
		assert.Contains(t, err.Error(), `"foo" -> "foo-extra"`)
	})

	t.Run("replacement contains another pattern", func(t *testing.T) {
		err := Conversions{{From: "alpha", To: "beta"}, {From: "gamma", To: "alphabet"}}.Validate()
		require.ErrorIs(t, err, ErrConversionOverlap)
	})

	t.Run("identity rules are ignored", func(t *testing.T) {
		require.NoError(t, CreateConversions("same", "same").Validate())
	})
}

func TestConversionTransformer(t *testing.T) {
	tr := NewConversionTransformer(CreateConversions("foo", "bar"))
	assert.Equal(t, "name-conversion", tr.Name())

	out, err := tr.Transform([]byte("func Foo() { foo() }"), Context{FilePath: "pkg/foo.go"})
	require.NoError(t, err)
	assert.Equal(t, "func Bar() { bar() }", string(out))

	input := []byte("unchanged")
	out, err = tr.Transform(input, Context{})
	require.NoError(t, err)
	assert.Equal(t, input, out)
}
