package common

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkwell/database"
	"inkwell/models"
)

func connectFileDb(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := ConnectDb(filepath.Join(t.TempDir(), "posts.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.RunMigrations(db))
	return db
}

func testPost(title string) models.BlogPost {
	return models.BlogPost{
		Title:    title,
		Subtitle: "Sub",
		Date:     "January, 01, 2024",
		Body:     "<p>body</p>",
		Author:   "A",
		ImgURL:   "https://x.test/i.png",
	}
}

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"posts.db", "posts.db?_busy_timeout=5000&_txlock=immediate"},
		{":memory:", ":memory:?_busy_timeout=5000&_txlock=immediate"},
		{"posts.db?_fk=1", "posts.db?_fk=1&_busy_timeout=5000&_txlock=immediate"},
		{"posts.db?_busy_timeout=100", "posts.db?_busy_timeout=100&_txlock=immediate"},
		{"posts.db?_busy_timeout=1&_txlock=deferred", "posts.db?_busy_timeout=1&_txlock=deferred"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.path))
		})
	}
}

func TestConnectDb_ConcurrentWrites(t *testing.T) {
	db := connectFileDb(t)
	store := database.NewPostStore(db)
	ctx := context.Background()

	id, err := store.Create(ctx, testPost("Shared"))
	require.NoError(t, err)

	const workers = 40
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, err := store.Create(ctx, testPost(fmt.Sprintf("Post %d", i)))
				errs <- err
				return
			}
			fields := testPost("Shared").Fields()
			fields.Subtitle = fmt.Sprintf("Edit %d", i)
			errs <- store.Update(ctx, id, fields)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	posts, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, workers/2+1)
}

func TestConnectDb_LogsSQLErrorsAtInfoLevel(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)

	db, err := ConnectDb(":memory:")
	require.NoError(t, err)

	assert.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "no_such_table")
}
