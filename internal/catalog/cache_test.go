package catalog

import (
	"context"
	"testing"
	"time"

	"celestial-server/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestRedisViewCacheDisabled(t *testing.T) {
	cache := NewRedisViewCache(nil, time.Minute, testLogger())
	assert.IsType(t, noCache{}, cache)

	cache.Set(context.Background(), &View{Handle: entity.MustHandle(1, entity.CategoryStar)})
	_, ok := cache.Get(context.Background(), entity.MustHandle(1, entity.CategoryStar))
	assert.False(t, ok)
}

func TestViewKey(t *testing.T) {
	assert.Equal(t, "celestial:body:72057594037927937", viewKey(entity.MustHandle(1, entity.CategoryPlanet)))
}
