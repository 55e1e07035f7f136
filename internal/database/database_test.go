package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trentd187/pickleball-directory/internal/logging"
	"github.com/trentd187/pickleball-directory/internal/models"
	"github.com/trentd187/pickleball-directory/internal/testdb"
	"gorm.io/gorm"
)

func TestConnectRequiresDSN(t *testing.T) {
	_, err := Connect("", time.Second)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestKeepConnectingStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	done := make(chan struct{})
	go func() {
		KeepConnecting(ctx, "", "migrations", time.Second, time.Hour, logging.Discard(), func(*gorm.DB) {
			called = true
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("KeepConnecting did not return after cancel")
	}
	assert.False(t, called)
}

func readMigration(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", name))
	require.NoError(t, err)
	return string(raw)
}

func TestSeedDownKeepsUserCourts(t *testing.T) {
	db := testdb.Open(t)

	require.NoError(t, db.Exec(readMigration(t, "000002_seed_courts.up.sql")).Error)

	// A court a user added later under one of the launch venues' names.
	user := models.Court{
		Name: "Riverside Park", Address: "1 River Road", Hours: "Open: 8 AM - 8 PM",
		CourtsDescription: "2 outdoor courts", Amenities: "Benches", Phone: "(555) 000-1111",
		Parking: "Lot", Fees: "Free",
	}
	require.NoError(t, db.Create(&user).Error)

	var count int64
	require.NoError(t, db.Model(&models.Court{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	require.NoError(t, db.Exec(readMigration(t, "000002_seed_courts.down.sql")).Error)

	var left []string
	require.NoError(t, db.Model(&models.Court{}).Pluck("id", &left).Error)
	assert.Equal(t, []string{user.ID.String()}, left)
}
