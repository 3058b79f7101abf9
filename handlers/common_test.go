package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                string
		page, limit         int64
		wantPage, wantLimit int64
	}{
		{"defaults kept", 1, 10, 1, 10},
		{"zero page", 0, 10, 1, 10},
		{"negative page", -3, 10, 1, 10},
		{"zero limit", 2, 0, 2, defaultPageLimit},
		{"limit capped", 1, 5000, 1, maxPageLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := normalizePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestPaginateCeil(t *testing.T) {
	p := paginate(25, 1, 10)
	assert.Equal(t, int64(25), p.Total)
	assert.Equal(t, int64(3), p.TotalPages, "totalPages = ceil(total/limit)")

	assert.Equal(t, int64(0), paginate(0, 1, 10).TotalPages)
	assert.Equal(t, int64(1), paginate(10, 1, 10).TotalPages)
	assert.Equal(t, int64(2), paginate(11, 1, 10).TotalPages)
}

func TestIsOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	assert.True(t, isOwner(owner, owner))
	assert.False(t, isOwner(owner, other), "a non-owner identity must never pass the ownership check")
}

func TestEscapeRegex(t *testing.T) {
	assert.Equal(t, `hello world`, escapeRegex("hello world"))
	assert.Equal(t, `c\+\+ \(draft\)`, escapeRegex("c++ (draft)"))
}
