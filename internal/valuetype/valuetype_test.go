package valuetype

import (
	"testing"

	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_TryCoerce(t *testing.T) {
	vt := NewText("title", true)

	tests := []struct {
		name string
		raw  any
		want string
		ok   bool
	}{
		{"string", "hello", "hello", true},
		{"bytes", []byte("hi"), "hi", true},
		{"int", 42, "42", true},
		{"float", 1.5, "1.5", true},
		{"bool", true, "true", true},
		{"map", map[string]any{}, "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := vt.TryCoerce(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestText_EqualityQuery(t *testing.T) {
	vt := NewText("title", true)

	cv, ok := vt.TryCoerce("espresso grinder")
	require.True(t, ok)

	q := vt.EqualityQuery(cv)
	mq, ok := q.(*query.MatchQuery)
	require.True(t, ok)
	assert.Equal(t, "title", mq.Field())
	assert.Equal(t, "espresso grinder", mq.Match)
}

// Text is deliberately not range-capable: range requests on text fields
// must be skipped, not translated.
func TestText_NotRangeCapable(t *testing.T) {
	var vt ValueType = NewText("title", true)
	_, ok := vt.(RangeCapable)
	assert.False(t, ok)

	_, ok = vt.(Sortable)
	assert.False(t, ok)
}

func TestKeyword_EqualityQuery(t *testing.T) {
	vt := NewKeyword("category", true)

	cv, ok := vt.TryCoerce("kitchen")
	require.True(t, ok)

	q := vt.EqualityQuery(cv)
	tq, ok := q.(*query.TermQuery)
	require.True(t, ok)
	assert.Equal(t, "category", tq.Field())
	assert.Equal(t, "kitchen", tq.Term)
}

func TestValueType_BoundToOneField(t *testing.T) {
	a := NewText("a", false)
	b := NewText("b", false)

	assert.Equal(t, "a", a.Field())
	assert.Equal(t, "b", b.Field())

	cv, _ := a.TryCoerce("x")
	mq := a.EqualityQuery(cv).(*query.MatchQuery)
	assert.Equal(t, "a", mq.Field())
}
