package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceydrinks/internal/cookbook"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
	"github.com/cory-johannsen/diceydrinks/internal/storage/postgres"
	"github.com/cory-johannsen/diceydrinks/internal/testutil"
)

func setupCookbook(t *testing.T) *postgres.CookbookRepository {
	t.Helper()
	repo := postgres.NewCookbookRepository(testutil.NewPool(t))
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func makeEntry(t *testing.T, name string, rating int, date time.Time) cookbook.Entry {
	t.Helper()
	s := recipe.State{
		Type:    recipe.TypeDrink,
		Method:  recipe.MethodShaken,
		Style:   recipe.StyleNeat,
		Targets: recipe.Targets{Spirits: 1, Mixers: 1},
		Spirits: []inventory.Item{{ID: "gin.tanqueray", Name: "Tanqueray", InRotation: true}},
		Mixers:  []inventory.Item{{ID: "mixers.tonic", Name: "Tonic", InRotation: true, RequiresSecondary: "citrus"}},
		Secondaries: []recipe.Secondary{{
			Item:       inventory.Item{ID: "citrus.lime", Name: "Lime"},
			ParentID:   "mixers.tonic",
			ParentType: inventory.CategoryMixers,
		}},
	}
	e, err := cookbook.NewEntry(name, rating, "tall glass", s, date)
	require.NoError(t, err)
	return e
}

func TestCookbookRepository_SaveAndGet(t *testing.T) {
	repo := setupCookbook(t)
	ctx := context.Background()

	e := makeEntry(t, "G&T", 4, time.Now().UTC().Truncate(time.Microsecond))
	_, err := repo.Save(ctx, e)
	require.NoError(t, err)

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "G&T", got.Name)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, "tall glass", got.Notes)
	assert.True(t, e.Date.Equal(got.Date))
	assert.Equal(t, recipe.MethodShaken, got.Recipe.Method)
	assert.Equal(t, []string{"gin.tanqueray"}, inventory.IDs(got.Recipe.Spirits))
	require.Len(t, got.Recipe.Secondaries, 1)
	assert.Equal(t, "mixers.tonic", got.Recipe.Secondaries[0].ParentID)
	assert.True(t, got.Recipe.Complete())
}

func TestCookbookRepository_SaveReplaces(t *testing.T) {
	repo := setupCookbook(t)
	ctx := context.Background()

	e := makeEntry(t, "Draft", 1, time.Now().UTC())
	_, err := repo.Save(ctx, e)
	require.NoError(t, err)

	e.Name = "Final"
	e.Rating = 5
	_, err = repo.Save(ctx, e)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Final", list[0].Name)
	assert.Equal(t, 5, list[0].Rating)
}

func TestCookbookRepository_ListAndFilter(t *testing.T) {
	repo := setupCookbook(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)

	for i, name := range []string{"Alpha", "Bravo", "Charlie"} {
		_, err := repo.Save(ctx, makeEntry(t, name, i, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)

	newest := cookbook.Filter(list, "", cookbook.SortDate)
	assert.Equal(t, "Charlie", newest[0].Name)
	assert.Len(t, cookbook.Filter(list, "tanqueray", cookbook.SortRating), 3)
}

func TestCookbookRepository_NotFound(t *testing.T) {
	repo := setupCookbook(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, cookbook.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), cookbook.ErrNotFound)
}

func TestCookbookRepository_Delete(t *testing.T) {
	repo := setupCookbook(t)
	ctx := context.Background()

	e := makeEntry(t, "Gone", 0, time.Now().UTC())
	_, err := repo.Save(ctx, e)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, e.ID))

	_, err = repo.Get(ctx, e.ID)
	assert.ErrorIs(t, err, cookbook.ErrNotFound)
}

func TestCookbookRepository_RejectsInvalid(t *testing.T) {
	repo := setupCookbook(t)
	_, err := repo.Save(context.Background(), cookbook.Entry{ID: uuid.New(), Rating: 9})
	assert.ErrorIs(t, err, cookbook.ErrInvalidEntry)
}

func TestPool_HealthAndDSN(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()
	require.NoError(t, pc.Pool.Health(ctx, 5*time.Second))

	raw, err := pgxpool.New(ctx, pc.DSN())
	require.NoError(t, err)
	defer raw.Close()
	require.NoError(t, raw.Ping(ctx))
}

func TestPool_TagsApplicationName(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	var name string
	err := pc.Pool.DB().QueryRow(context.Background(), `SELECT current_setting('application_name')`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, postgres.ApplicationName, name)
}

func TestPool_HealthFailsAfterClose(t *testing.T) {
	cfg := testutil.NewPostgresContainer(t).Config
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	pool.Close()
	assert.Error(t, pool.Health(ctx, time.Second))
}
