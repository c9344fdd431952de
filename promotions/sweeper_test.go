package promotions

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"dishdash-api/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:sweeper_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Restaurant{}))
	return db
}

func TestSweepClearsExpiredPromotions(t *testing.T) {
	db := setupDB(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := models.Restaurant{Name: "Expired", OwnerID: 1, IsPromoted: true, PromotedUntil: &past}
	active := models.Restaurant{Name: "Active", OwnerID: 1, IsPromoted: true, PromotedUntil: &future}
	never := models.Restaurant{Name: "Never", OwnerID: 1}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&never).Error)

	sweeper := NewSweeper(db, time.Hour, zerolog.Nop())
	sweeper.Sweep()

	var got models.Restaurant
	require.NoError(t, db.First(&got, expired.ID).Error)
	assert.False(t, got.IsPromoted)
	assert.Nil(t, got.PromotedUntil)

	got = models.Restaurant{}
	require.NoError(t, db.First(&got, active.ID).Error)
	assert.True(t, got.IsPromoted, "future promotion must be untouched")
	require.NotNil(t, got.PromotedUntil)
	assert.WithinDuration(t, future, *got.PromotedUntil, time.Second)

	got = models.Restaurant{}
	require.NoError(t, db.First(&got, never.ID).Error)
	assert.False(t, got.IsPromoted)
}

func TestSweepIsIdempotent(t *testing.T) {
	db := setupDB(t)

	past := time.Now().Add(-time.Minute)
	restaurant := models.Restaurant{Name: "R", OwnerID: 1, IsPromoted: true, PromotedUntil: &past}
	require.NoError(t, db.Create(&restaurant).Error)

	sweeper := NewSweeper(db, time.Hour, zerolog.Nop())
	sweeper.Sweep()
	sweeper.Sweep()

	var got models.Restaurant
	require.NoError(t, db.First(&got, restaurant.ID).Error)
	assert.False(t, got.IsPromoted)
}
