package searcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structsearch/structsearch/internal/criteria"
	"github.com/structsearch/structsearch/internal/facet"
	"github.com/structsearch/structsearch/internal/schema"
	"github.com/structsearch/structsearch/internal/valuetype"
	"github.com/structsearch/structsearch/pkg/indexer"
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	text, _ := schema.Builtin(schema.TypeText, schema.TypeOptions{Store: true})
	reg.Register("title", text)

	kw, _ := schema.Builtin(schema.TypeKeyword, schema.TypeOptions{Store: true})
	reg.Register("category", kw)

	dbl, _ := schema.Builtin(schema.TypeDouble, schema.TypeOptions{Store: true})
	reg.Register("price", dbl)

	long, _ := schema.Builtin(schema.TypeLong, schema.TypeOptions{})
	reg.Register("quantity", long)

	date, _ := schema.Builtin(schema.TypeDate, schema.TypeOptions{Resolution: valuetype.ResolutionDay})
	reg.Register("published", date)

	return reg
}

func testFacets(t *testing.T) *facet.Config {
	t.Helper()
	fc := facet.NewConfig()
	fc.Declare("category", facet.Rule{})
	budgetMax, premiumMin := 20.0, 100.0
	fc.Declare("price", facet.Rule{
		NumericRanges: []facet.NumericRange{
			{Name: "budget", Max: &budgetMax},
			{Name: "premium", Min: &premiumMin},
		},
	})
	return fc
}

// newTestSearcher indexes three products into an in-memory backend and
// returns a searcher over them.
func newTestSearcher(t *testing.T) (*Searcher, *schema.Registry) {
	t.Helper()
	reg := testRegistry(t)

	idx, err := indexer.Open("", indexer.BuildIndexMapping(reg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	ix := indexer.New(idx, reg, indexer.Options{})
	require.NoError(t, ix.Index(context.Background(), []indexer.Document{
		{ID: "1", Attrs: map[string]any{
			"title": "Espresso grinder", "category": "kitchen",
			"price": 129.5, "quantity": 5, "published": "2024-01-01T08:00:00Z",
		}},
		{ID: "2", Attrs: map[string]any{
			"title": "Coffee beans dark roast", "category": "pantry",
			"price": 15.0, "quantity": 100, "published": "2024-01-01T20:00:00Z",
		}},
		{ID: "3", Attrs: map[string]any{
			"title": "Grinder brush", "category": "kitchen",
			"price": 9.99, "quantity": 42, "published": "2024-02-10",
		}},
	}))

	s, err := New(idx, reg, testFacets(t), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, reg
}

func hitIDs(r *Result) []string {
	ids := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestSearch_NilCriteria_MatchesAll(t *testing.T) {
	s, _ := newTestSearcher(t)

	r, err := s.Search(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), r.Total)
}

func TestSearch_ManagedQuery(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := criteria.New(reg)
	b.ManagedQuery("grinder", []string{"title"}, criteria.ManagedParams{})

	r, err := s.Search(context.Background(), Request{Criteria: b})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), r.Total)
	assert.ElementsMatch(t, []string{"1", "3"}, hitIDs(r))
}

func TestSearch_NumericEquality(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := criteria.New(reg)
	b.Field("price", 15)

	r, err := s.Search(context.Background(), Request{Criteria: b})
	require.NoError(t, err)
	require.Equal(t, uint64(1), r.Total)
	assert.Equal(t, "2", r.Hits[0].ID)
}

func TestSearch_KeywordEquality(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := criteria.New(reg)
	b.Field("category", "kitchen")

	r, err := s.Search(context.Background(), Request{Criteria: b})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "3"}, hitIDs(r))
}

// Inclusive bounds admit documents sitting exactly on an endpoint;
// exclusive bounds reject them.
func TestSearch_RangeEndpoints(t *testing.T) {
	s, reg := newTestSearcher(t)

	inclusive := criteria.New(reg)
	inclusive.Range("quantity", 5, 100, true, true)
	r, err := s.Search(context.Background(), Request{Criteria: inclusive})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), r.Total)

	exclusive := criteria.New(reg)
	exclusive.Range("quantity", 5, 100, false, false)
	r, err = s.Search(context.Background(), Request{Criteria: exclusive})
	require.NoError(t, err)
	require.Equal(t, uint64(1), r.Total)
	assert.Equal(t, "3", r.Hits[0].ID)
}

// A single-day range over a day-resolution date field matches every
// document published that day, whatever its time of day.
func TestSearch_DateRangeAtDayResolution(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := criteria.New(reg)
	b.Range("published", "2024-01-01", "2024-01-01", true, true)

	r, err := s.Search(context.Background(), Request{Criteria: b})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, hitIDs(r))
}

func TestSearch_OrderByPrice(t *testing.T) {
	s, reg := newTestSearcher(t)

	asc := criteria.New(reg)
	asc.MatchAll().OrderBy("price", false)
	r, err := s.Search(context.Background(), Request{Criteria: asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "1"}, hitIDs(r))

	desc := criteria.New(reg)
	desc.MatchAll().OrderBy("price", true)
	r, err = s.Search(context.Background(), Request{Criteria: desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, hitIDs(r))
}

func TestSearch_ManagedQuery_UnknownFields_ZeroHits(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := criteria.New(reg)
	b.ManagedQuery("grinder", []string{"unknownField"}, criteria.ManagedParams{})

	r, err := s.Search(context.Background(), Request{Criteria: b})
	require.NoError(t, err, "unmatched managed fields narrow to nothing, not an error")
	assert.Equal(t, uint64(0), r.Total)
}

func TestSearch_Facets(t *testing.T) {
	s, _ := newTestSearcher(t)

	r, err := s.Search(context.Background(), Request{})
	require.NoError(t, err)

	cat, ok := r.Facets["category"]
	require.True(t, ok)
	counts := map[string]int{}
	for _, tc := range cat.Terms {
		counts[tc.Term] = tc.Count
	}
	assert.Equal(t, 2, counts["kitchen"])
	assert.Equal(t, 1, counts["pantry"])

	price, ok := r.Facets["price"]
	require.True(t, ok)
	buckets := map[string]int{}
	for _, rc := range price.Ranges {
		buckets[rc.Name] = rc.Count
	}
	assert.Equal(t, 2, buckets["budget"])
	assert.Equal(t, 1, buckets["premium"])
}

func TestSearch_FacetsNarrowWithQuery(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := criteria.New(reg)
	b.Field("category", "kitchen")

	r, err := s.Search(context.Background(), Request{Criteria: b})
	require.NoError(t, err)

	price, ok := r.Facets["price"]
	require.True(t, ok)
	buckets := map[string]int{}
	for _, rc := range price.Ranges {
		buckets[rc.Name] = rc.Count
	}
	assert.Equal(t, 1, buckets["budget"], "only the brush remains under 20")
	assert.Equal(t, 1, buckets["premium"])
}

func TestSearch_StoredFields(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := criteria.New(reg)
	b.Field("price", 15)

	r, err := s.Search(context.Background(), Request{Criteria: b, Fields: []string{"title"}})
	require.NoError(t, err)
	require.Len(t, r.Hits, 1)
	assert.Equal(t, "Coffee beans dark roast", r.Hits[0].Fields["title"])
}

func TestSearch_Pagination(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := func() *criteria.Builder {
		b := criteria.New(reg)
		b.MatchAll().OrderBy("price", false)
		return b
	}

	r, err := s.Search(context.Background(), Request{Criteria: b(), Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2"}, hitIDs(r))

	r, err = s.Search(context.Background(), Request{Criteria: b(), Size: 2, From: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, hitIDs(r))
}

func TestSearch_CompileErrorSurfaces(t *testing.T) {
	s, reg := newTestSearcher(t)

	b := criteria.New(reg)
	b.GroupedFlexible([]string{"title", "category"}, []criteria.BooleanOp{criteria.And}, "x", "y")

	_, err := s.Search(context.Background(), Request{Criteria: b})
	assert.Error(t, err)
}

func TestSearch_CacheReturnsSameResult(t *testing.T) {
	s, _ := newTestSearcher(t)

	r1, err := s.Search(context.Background(), Request{Size: 5})
	require.NoError(t, err)
	r2, err := s.Search(context.Background(), Request{Size: 5})
	require.NoError(t, err)
	assert.Same(t, r1, r2, "identical requests hit the cache")

	s.Purge()
	r3, err := s.Search(context.Background(), Request{Size: 5})
	require.NoError(t, err)
	assert.NotSame(t, r1, r3)
}

func TestSearch_Closed(t *testing.T) {
	s, _ := newTestSearcher(t)
	require.NoError(t, s.Close())

	_, err := s.Search(context.Background(), Request{})
	assert.Error(t, err)
}
