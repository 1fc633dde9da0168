package repository

import (
	"testing"

	"venue-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchVenuesQuery_Filters(t *testing.T) {
	category := entity.CategoryGarden
	minPrice, maxPrice := 10000.0, 30000.0
	guests := 80

	query, args, err := searchVenuesQuery(VenueFilter{
		Statuses: []entity.VenueStatus{entity.VenueStatusActive, entity.VenueStatusFeatured},
		Category: &category,
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Guests:   &guests,
		Sort:     "price_asc",
		Limit:    20,
		Offset:   40,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM venues WHERE (deleted_at IS NULL AND status IN ($1,$2)")
	assert.Contains(t, query, "category = $3")
	assert.Contains(t, query, "base_price >= $4")
	assert.Contains(t, query, "base_price <= $5")
	assert.Contains(t, query, "min_capacity <= $6")
	assert.Contains(t, query, "max_capacity >= $7")
	assert.Contains(t, query, "ORDER BY CASE WHEN status = 'featured' THEN 0 ELSE 1 END, base_price ASC, id")
	assert.Contains(t, query, "LIMIT 20 OFFSET 40")

	assert.Equal(t, []any{"active", "featured", "garden", 10000.0, 30000.0, 80, 80}, args)
}

func TestSearchVenuesQuery_NoFilters(t *testing.T) {
	query, args, err := searchVenuesQuery(VenueFilter{}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE (deleted_at IS NULL)")
	assert.Contains(t, query, "ORDER BY CASE WHEN status = 'featured' THEN 0 ELSE 1 END, created_at DESC, id")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

func TestVenueOrdering_FeaturedFirst(t *testing.T) {
	tests := []struct {
		sort string
		want []string
	}{
		{"price_desc", []string{"base_price DESC"}},
		{"rating", []string{"rating DESC", "review_count DESC"}},
		{"popular", []string{"favorite_count DESC", "view_count DESC"}},
		{"newest", []string{"created_at DESC"}},
		{"", []string{"created_at DESC"}},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			order := venueOrdering(tt.sort)

			require.Len(t, order, len(tt.want)+2)
			assert.Equal(t, "CASE WHEN status = 'featured' THEN 0 ELSE 1 END", order[0])
			assert.Equal(t, tt.want, order[1:len(order)-1])
			assert.Equal(t, "id", order[len(order)-1])
		})
	}
}
