package catalog

import (
	"testing"

	"github.com/example/tmstore/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func testProducts() []models.Product {
	apparel := &models.Category{ID: "c1", Slug: "apparel", Name: "Apparel"}
	headwear := &models.Category{ID: "c2", Slug: "headwear", Name: "Headwear"}
	return []models.Product{
		{ID: "p1", Slug: "classic-hoodie", Name: "Classic Hoodie", NameID: "Hoodie Klasik",
			Price: 1850000, Category: apparel, Gender: models.GenderUnisex,
			Sizes: models.SizeList{"M", "L", "XL"}, IsNew: false, IsBestSeller: true},
		{ID: "p2", Slug: "street-cap", Name: "Street Cap", Price: 380000,
			Category: headwear, Gender: models.GenderMen,
			Sizes: models.SizeList{"OS"}, IsNew: true},
		{ID: "p3", Slug: "oversize-tee", Name: "Oversize Tee", Price: 450000,
			Category: apparel, Gender: models.GenderWomen,
			Sizes: models.SizeList{"S", "M"}, IsNew: true, IsFeatured: true},
		{ID: "p4", Slug: "cargo-pants", Name: "Cargo Pants", Price: 1200000,
			Category: apparel, Gender: models.GenderMen,
			Sizes: models.SizeList{"L"}, IsBestSeller: true},
	}
}

func TestApplyCategoryFilter(t *testing.T) {
	out := Apply(testProducts(), Criteria{Category: "headwear"})
	require.Len(t, out, 1)
	assert.Equal(t, "street-cap", out[0].Slug)
}

func TestApplyPriceRangeInclusive(t *testing.T) {
	out := Apply(testProducts(), Criteria{MinPrice: ptr(1000000), MaxPrice: ptr(2000000)})
	require.Len(t, out, 2)
	for _, p := range out {
		assert.GreaterOrEqual(t, p.Price, int64(1000000))
		assert.LessOrEqual(t, p.Price, int64(2000000))
	}

	// bounds are inclusive
	exact := Apply(testProducts(), Criteria{MinPrice: ptr(380000), MaxPrice: ptr(380000)})
	require.Len(t, exact, 1)
	assert.Equal(t, "street-cap", exact[0].Slug)
}

func TestApplySizeIntersection(t *testing.T) {
	// at-least-one semantics: requesting S or XL hits products carrying
	// either, not only products carrying both
	out := Apply(testProducts(), Criteria{Sizes: []string{"S", "XL"}})
	require.Len(t, out, 2)
	assert.Equal(t, "classic-hoodie", out[0].Slug)
	assert.Equal(t, "oversize-tee", out[1].Slug)
}

func TestApplySearch(t *testing.T) {
	testCases := []struct {
		name  string
		term  string
		slugs []string
	}{
		{name: "matches name case-insensitively", term: "HOODIE", slugs: []string{"classic-hoodie"}},
		{name: "matches localized name", term: "klasik", slugs: []string{"classic-hoodie"}},
		{name: "matches category name", term: "headwear", slugs: []string{"street-cap"}},
		{name: "no match", term: "sneaker", slugs: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := Apply(testProducts(), Criteria{Search: tc.term})
			var got []string
			for _, p := range out {
				got = append(got, p.Slug)
			}
			assert.Equal(t, tc.slugs, got)
		})
	}
}

func TestApplyFlagFilters(t *testing.T) {
	out := Apply(testProducts(), Criteria{IsNew: true})
	require.Len(t, out, 2)

	out = Apply(testProducts(), Criteria{IsBestSeller: true, Gender: models.GenderMen})
	require.Len(t, out, 1)
	assert.Equal(t, "cargo-pants", out[0].Slug)
}

func TestApplySortPriceAsc(t *testing.T) {
	out := Apply(testProducts(), Criteria{Sort: SortPriceAsc})
	require.Len(t, out, 4)
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1].Price, out[i].Price)
	}
}

func TestApplySortPriceDesc(t *testing.T) {
	out := Apply(testProducts(), Criteria{Sort: SortPriceDesc})
	require.Len(t, out, 4)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Price, out[i].Price)
	}
}

func TestApplySortNewestIsStablePartition(t *testing.T) {
	out := Apply(testProducts(), Criteria{Sort: SortNewest})
	require.Len(t, out, 4)

	// all IsNew products first, each group in original relative order
	var got []string
	for _, p := range out {
		got = append(got, p.Slug)
	}
	assert.Equal(t, []string{"street-cap", "oversize-tee", "classic-hoodie", "cargo-pants"}, got)
}

func TestApplySortBestSellerIsStablePartition(t *testing.T) {
	out := Apply(testProducts(), Criteria{Sort: SortBestSeller})
	var got []string
	for _, p := range out {
		got = append(got, p.Slug)
	}
	assert.Equal(t, []string{"classic-hoodie", "cargo-pants", "street-cap", "oversize-tee"}, got)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := testProducts()
	var original []string
	for _, p := range in {
		original = append(original, p.Slug)
	}

	Apply(in, Criteria{Sort: SortPriceDesc, Category: "apparel"})

	var after []string
	for _, p := range in {
		after = append(after, p.Slug)
	}
	assert.Equal(t, original, after)
}
