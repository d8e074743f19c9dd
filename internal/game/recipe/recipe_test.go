package recipe_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
)

var (
	whiskey = inventory.Item{ID: "whiskey.jim_beam", Name: "Jim Beam"}
	rum     = inventory.Item{ID: "rum.bacardi", Name: "Bacardi"}
	tonic   = inventory.Item{ID: "mixers.tonic", Name: "Tonic", RequiresSecondary: "citrus"}
	cola    = inventory.Item{ID: "mixers.cola", Name: "Cola"}
	soda    = inventory.Item{ID: "mixers.soda", Name: "Soda", RequiresSecondary: "citrus"}
	bitters = inventory.Item{ID: "additives.bitters", Name: "Bitters", RequiresSecondary: "peel"}
	lime    = inventory.Item{ID: "citrus.lime", Name: "Lime"}
	lemon   = inventory.Item{ID: "citrus.lemon", Name: "Lemon"}
	orange  = inventory.Item{ID: "peel.orange", Name: "Orange peel"}
)

func newState() recipe.State {
	return recipe.State{
		Type:    recipe.TypeDrink,
		Method:  recipe.MethodShaken,
		Style:   recipe.StyleRocks,
		Targets: recipe.Targets{Spirits: 2, Mixers: 2, Additives: 1},
	}
}

func TestCommit_AppendsWithoutTouchingReceiver(t *testing.T) {
	s := newState()
	next, err := s.Commit(inventory.CategorySpirits, whiskey)
	require.NoError(t, err)

	assert.Empty(t, s.Spirits)
	assert.Empty(t, s.Selected)
	assert.Equal(t, []string{"whiskey.jim_beam"}, inventory.IDs(next.Spirits))
	assert.Equal(t, []string{"whiskey.jim_beam"}, inventory.IDs(next.Selected))
	assert.Equal(t, 1, next.Remaining(inventory.CategorySpirits))
	assert.Equal(t, 1, next.Commits())
}

func TestCommit_TargetExceeded(t *testing.T) {
	s := newState()
	_, err := s.Commit(inventory.CategoryAdditives, bitters, bitters)
	assert.ErrorIs(t, err, recipe.ErrTargetExceeded)

	_, err = s.Commit(inventory.CategorySpiritFamilies, whiskey)
	assert.ErrorIs(t, err, recipe.ErrTargetExceeded)
}

func TestCommit_RejectsSecondariesAndUnknownCategories(t *testing.T) {
	s := newState()
	_, err := s.Commit(inventory.CategorySecondaries, lime)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
	_, err = s.Commit("garnish", lime)
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}

func TestCommit_NothingIsNoop(t *testing.T) {
	s := newState()
	next, err := s.Commit(inventory.CategoryMixers)
	require.NoError(t, err)
	assert.Zero(t, next.Commits())
}

func TestUnmatchedParents_MixersFirstMostRecentFirst(t *testing.T) {
	s := newState()
	s, err := s.Commit(inventory.CategoryMixers, tonic, soda)
	require.NoError(t, err)
	s, err = s.Commit(inventory.CategoryAdditives, bitters)
	require.NoError(t, err)

	parents := s.UnmatchedParents()
	require.Len(t, parents, 3)
	assert.Equal(t, "mixers.soda", parents[0].Item.ID)
	assert.Equal(t, inventory.CategoryMixers, parents[0].Type)
	assert.Equal(t, "mixers.tonic", parents[1].Item.ID)
	assert.Equal(t, "additives.bitters", parents[2].Item.ID)
	assert.Equal(t, inventory.CategoryAdditives, parents[2].Type)
}

func TestAddSecondary(t *testing.T) {
	s := newState()
	s, err := s.Commit(inventory.CategoryMixers, tonic, cola)
	require.NoError(t, err)

	parent := s.UnmatchedParents()[0]
	next, err := s.AddSecondary(parent, lime)
	require.NoError(t, err)
	require.Len(t, next.Secondaries, 1)
	assert.Equal(t, "mixers.tonic", next.Secondaries[0].ParentID)
	assert.Equal(t, inventory.CategoryMixers, next.Secondaries[0].ParentType)
	assert.True(t, next.HasSecondary("mixers.tonic", inventory.CategoryMixers))
	assert.False(t, next.HasSecondary("mixers.tonic", inventory.CategoryAdditives))
	assert.Empty(t, next.UnmatchedParents())
	assert.Equal(t, []string{"citrus.lime"}, inventory.IDs(next.Bucket(inventory.CategorySecondaries)))
	assert.Contains(t, inventory.IDs(next.Selected), "citrus.lime")

	_, err = next.AddSecondary(parent, lemon)
	assert.ErrorIs(t, err, recipe.ErrUnknownParent, "already matched")

	_, err = s.AddSecondary(recipe.Parent{Item: cola, Type: inventory.CategoryMixers}, lemon)
	assert.ErrorIs(t, err, recipe.ErrUnknownParent, "no secondary needed")

	_, err = s.AddSecondary(recipe.Parent{Item: tonic, Type: inventory.CategoryAdditives}, lemon)
	assert.ErrorIs(t, err, recipe.ErrUnknownParent, "wrong parent type")
}

func TestRevert_UndoesMostRecentCommit(t *testing.T) {
	s := newState()
	s, _ = s.Commit(inventory.CategorySpirits, whiskey, rum)
	s, _ = s.Commit(inventory.CategoryMixers, tonic)
	s, _ = s.AddSecondary(s.UnmatchedParents()[0], lime)

	s, undone, ok := s.Revert()
	require.True(t, ok)
	assert.Equal(t, inventory.CategorySecondaries, undone)
	assert.Empty(t, s.Secondaries)
	assert.Len(t, s.UnmatchedParents(), 1)

	s, undone, ok = s.Revert()
	require.True(t, ok)
	assert.Equal(t, inventory.CategoryMixers, undone)
	assert.Empty(t, s.Mixers)

	s, undone, ok = s.Revert()
	require.True(t, ok)
	assert.Equal(t, inventory.CategorySpirits, undone)
	assert.Empty(t, s.Spirits)
	assert.Empty(t, s.Selected)

	_, _, ok = s.Revert()
	assert.False(t, ok)
}

func TestAddSecondary_MatchesParentType(t *testing.T) {
	shared := inventory.Item{ID: "house.syrup", Name: "House syrup", RequiresSecondary: "citrus"}
	s := recipe.State{Targets: recipe.Targets{Mixers: 1, Additives: 1}}
	s, err := s.Commit(inventory.CategoryMixers, shared)
	require.NoError(t, err)
	s, err = s.Commit(inventory.CategoryAdditives, shared)
	require.NoError(t, err)
	require.Len(t, s.UnmatchedParents(), 2)

	s, err = s.AddSecondary(recipe.Parent{Item: shared, Type: inventory.CategoryMixers}, lime)
	require.NoError(t, err)

	parents := s.UnmatchedParents()
	require.Len(t, parents, 1, "the additive still waits for its own secondary")
	assert.Equal(t, inventory.CategoryAdditives, parents[0].Type)
	assert.False(t, s.Complete())
}

func TestUnmarshalJSON_RebuildsSelected(t *testing.T) {
	s := newState()
	s, err := s.Commit(inventory.CategorySpirits, whiskey, rum)
	require.NoError(t, err)
	s, err = s.Commit(inventory.CategoryMixers, tonic)
	require.NoError(t, err)
	s, err = s.AddSecondary(s.UnmatchedParents()[0], lime)
	require.NoError(t, err)

	body, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "Selected")

	var decoded recipe.State
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.ElementsMatch(t, inventory.IDs(s.Selected), inventory.IDs(decoded.Selected))
	assert.Equal(t, 3, decoded.Commits())
	assert.Equal(t, 1, decoded.Remaining(inventory.CategoryMixers))

	reverted, undone, ok := decoded.Revert()
	require.True(t, ok)
	assert.Equal(t, inventory.CategorySecondaries, undone)
	assert.Equal(t, []string{"whiskey.jim_beam", "rum.bacardi", "mixers.tonic"}, inventory.IDs(reverted.Selected))

	assert.Error(t, json.Unmarshal([]byte(`{"targets": 3}`), &decoded))
}

func TestComplete(t *testing.T) {
	s := recipe.State{Targets: recipe.Targets{Spirits: 1, Mixers: 1}}
	assert.False(t, s.Complete())
	s, _ = s.Commit(inventory.CategorySpirits, whiskey)
	s, _ = s.Commit(inventory.CategoryMixers, soda)
	assert.False(t, s.Complete(), "soda still needs a secondary")
	s, err := s.AddSecondary(s.UnmatchedParents()[0], lemon)
	require.NoError(t, err)
	assert.True(t, s.Complete())

	assert.True(t, recipe.State{}.Complete())
}

func TestReset_KeepsShape(t *testing.T) {
	s := newState()
	s, _ = s.Commit(inventory.CategorySpirits, whiskey)
	r := s.Reset()
	assert.Equal(t, s.Type, r.Type)
	assert.Equal(t, s.Method, r.Method)
	assert.Equal(t, s.Style, r.Style)
	assert.Equal(t, s.Targets, r.Targets)
	assert.Empty(t, r.Spirits)
	assert.Empty(t, r.Selected)
	assert.Zero(t, r.Commits())
}

func TestState_Invariants_Property(t *testing.T) {
	pool := []inventory.Item{whiskey, rum, tonic, cola, soda, bitters}
	cats := []inventory.Category{
		inventory.CategorySpiritFamilies,
		inventory.CategorySpirits,
		inventory.CategoryMixers,
		inventory.CategoryAdditives,
	}
	rapid.Check(t, func(rt *rapid.T) {
		s := recipe.State{Targets: recipe.Targets{
			SpiritFamilies: rapid.IntRange(0, 3).Draw(rt, "families"),
			Spirits:        rapid.IntRange(0, 3).Draw(rt, "spirits"),
			Mixers:         rapid.IntRange(0, 3).Draw(rt, "mixers"),
			Additives:      rapid.IntRange(0, 3).Draw(rt, "additives"),
		}}
		steps := rapid.IntRange(0, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				c := rapid.SampledFrom(cats).Draw(rt, "category")
				items := rapid.SliceOfN(rapid.SampledFrom(pool), 0, 2).Draw(rt, "items")
				if next, err := s.Commit(c, items...); err == nil {
					s = next
				}
			case 1:
				if ps := s.UnmatchedParents(); len(ps) > 0 {
					next, err := s.AddSecondary(ps[0], lime)
					require.NoError(rt, err)
					s = next
				}
			case 2:
				s, _, _ = s.Revert()
			}

			total := len(s.Secondaries)
			for _, c := range cats {
				assert.LessOrEqual(rt, len(s.Bucket(c)), s.Target(c))
				total += len(s.Bucket(c))
			}
			assert.Len(rt, s.Selected, total)
		}
	})
}

func TestMethods(t *testing.T) {
	assert.Equal(t, []recipe.Method{recipe.MethodShaken, recipe.MethodStirred, recipe.MethodBlended}, recipe.Methods(recipe.TypeDrink))
	assert.Equal(t, []recipe.Method{recipe.MethodShaken, recipe.MethodStirred, recipe.MethodLayered}, recipe.Methods(recipe.TypeShot))
}

func TestRolls_StayInRange(t *testing.T) {
	src := dice.NewSeededSource(7)
	seenTypes := map[recipe.DrinkType]bool{}
	for i := 0; i < 200; i++ {
		dt, err := recipe.RollType(src)
		require.NoError(t, err)
		seenTypes[dt] = true

		m, err := recipe.RollMethod(src, recipe.TypeShot)
		require.NoError(t, err)
		assert.Contains(t, recipe.Methods(recipe.TypeShot), m)

		st, err := recipe.RollStyle(src)
		require.NoError(t, err)
		assert.Contains(t, recipe.Styles, st)
	}
	assert.Len(t, seenTypes, 2)
}

func TestRollTargets(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewSeededSource(11), zap.NewNop())
	for i := 0; i < 200; i++ {
		tg := recipe.RollTargets(r, recipe.DefaultCountDice(), false)
		assert.GreaterOrEqual(t, tg.Spirits, 1)
		assert.LessOrEqual(t, tg.Spirits, 3)
		assert.GreaterOrEqual(t, tg.Mixers, 1)
		assert.LessOrEqual(t, tg.Mixers, 4)
		assert.GreaterOrEqual(t, tg.Additives, 1)
		assert.LessOrEqual(t, tg.Additives, 2)
		assert.Zero(t, tg.SpiritFamilies)
	}

	tg := recipe.RollTargets(r, recipe.DefaultCountDice(), true)
	assert.Equal(t, tg.Spirits, tg.SpiritFamilies)

	cd, err := recipe.ParseCountDice("1d2-5", "1d4", "d2")
	require.NoError(t, err)
	assert.Zero(t, recipe.RollTargets(r, cd, false).Spirits)

	_, err = recipe.ParseCountDice("1d3", "banana", "1d2")
	assert.ErrorIs(t, err, dice.ErrInvalidArgument)
}
