package limitpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"fits", "hello world", 11, "hello world"},
		{"tail trimmed", "abcdefgh", 5, "abcd~"},
		{"floor of three chars", "abcdefgh", 0, "abc~"},
		{"short string untouched", "ab", 1, "ab"},
		{"three bytes untouched", "abc", 2, "abc"},
		{"no gain at four bytes", "abcd", 3, "abcd"},
		{"multibyte runes", "北京欢迎你", 6, "北~"},
		{"empty", "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clip(tt.input, tt.limit))
		})
	}
}

func TestPackList(t *testing.T) {
	assert.Equal(t, "[abcdef,xy]", Pack([]string{"abcdef", "xy"}, 20))
	assert.Equal(t, "[abcd~,xy]", Pack([]string{"abcdef", "xy"}, 10))
}

func TestPackListDropsTail(t *testing.T) {
	assert.Equal(t, "[1,2,3,4,5]", Pack([]int{1, 2, 3, 4, 5}, 11))
	assert.Equal(t, "[1,2,3^]", Pack([]int{1, 2, 3, 4, 5}, 8))
}

func TestPackSingleElementListUntrimmable(t *testing.T) {
	assert.Equal(t, "[ab]", Pack([]string{"ab"}, 2))
}

func TestPackMap(t *testing.T) {
	m := map[string]int{"beta": 2, "alpha": 1}

	// Pairs sort by key, so output is stable.
	assert.Equal(t, "{alpha:1,beta:2}", Pack(m, 16))
	assert.Equal(t, "{alp~:1^}", Pack(m, 12))
}

func TestPackStruct(t *testing.T) {
	type sample struct {
		ID     int
		Title  string
		hidden bool
	}

	got := Pack(sample{ID: 7, Title: "hello", hidden: true}, 50)
	assert.Equal(t, "{ID:7,Title:hello}", got)
}

func TestPackScalars(t *testing.T) {
	assert.Equal(t, "42", Pack(42, 1))
	assert.Equal(t, "true", Pack(true, 1))
	assert.Equal(t, "nil", Pack(nil, 10))

	var p *int
	assert.Equal(t, "nil", Pack(p, 10))

	n := 9
	assert.Equal(t, "9", Pack(&n, 10))
}

func TestFixedNodesNeverTrim(t *testing.T) {
	root := NewList([]*Node{
		NewString("abcdef", true),
		NewString("ghijkl", true),
	}, '(', ')', true)

	assert.Equal(t, "(abcdef,ghijkl)", root.Render(5))
}

func TestPackerOverride(t *testing.T) {
	got := Pack(masked{}, 50)
	assert.Equal(t, "***", got)
}

type masked struct{}

func (masked) LimitNode() *Node {
	return NewString("***", true)
}

func TestRenderEmptyContainers(t *testing.T) {
	assert.Equal(t, "[]", Pack([]int{}, 10))
	assert.Equal(t, "{}", Pack(map[string]int{}, 10))
}
