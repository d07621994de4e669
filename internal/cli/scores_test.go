package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizshow/internal/app"
	rediscache "quizshow/internal/infra/redis"
)

func redisConfig(t *testing.T, addr string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := fmt.Sprintf("log:\n  level: error\nredis:\n  addr: %s\n", addr)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestScoresListsRedisResults(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := rediscache.NewResultStore(client, 10, time.Hour)
	finished := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, score := range []int{90, 390} {
		require.NoError(t, store.SaveResult(context.Background(), app.Result{
			GameID: fmt.Sprint(score), Bank: "pme", Score: score, Possible: 400,
			Percent: score * 100 / 400, Grade: app.GradeFor(score * 100 / 400), FinishedAt: finished,
		}))
	}

	out, err := runCLI(t, "--config", redisConfig(t, mr.Addr()), "scores", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "GRADE")
	assert.Contains(t, out, "390/400")
	assert.Equal(t, 1, strings.Count(out, "/400"), "limit applies")
}

func TestScoresEmptyBank(t *testing.T) {
	mr := miniredis.RunT(t)
	out, err := runCLI(t, "--config", redisConfig(t, mr.Addr()), "scores", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "no results for other")
}

func TestScoresNeedRedis(t *testing.T) {
	_, err := runCLI(t, "--config", emptyConfig(t), "scores")
	assert.Error(t, err)
}
