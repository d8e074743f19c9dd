package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
)

const snapshotYAML = `
version: 1
inventory:
  spirits:
    - {id: whiskey, name: Whiskey, kind: family, subpool: whiskey, in_rotation: true}
    - {id: rum, name: Rum, kind: family, subpool: rum, in_rotation: false}
    - {id: spirits.vodka, name: Vodka, in_rotation: true, weight: 2}
    - {id: spirits.wine, name: Wine, traits: [wine], in_rotation: true}
  mixers:
    - {id: mixers.coffee, name: Coffee, traits: [coffee], in_rotation: true}
    - {id: mixers.tonic, name: Tonic, in_rotation: false}
    - {id: mixers.cola, name: Cola, in_rotation: true, requires_secondary: citrus}
  additives:
    - {id: additives.bitters, name: Bitters, in_rotation: true}
subpools:
  whiskey:
    - {id: whiskey.jim_beam, name: Jim Beam, in_rotation: true}
    - {id: whiskey.jameson, name: Jameson, in_rotation: false}
secondary:
  citrus:
    - {id: secondary.lime, name: Lime Wedge, in_rotation: true}
rules:
  hard_bans:
    - {a: "trait:wine", b: "trait:coffee"}
  soft_rules:
    - {a: "trait:cream_liqueur", b: "trait:beer", weight_mult: 0.25}
`

func TestParse_Pools(t *testing.T) {
	s, err := inventory.Parse([]byte(snapshotYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"whiskey"}, inventory.IDs(s.Pool(inventory.CategorySpiritFamilies)))
	assert.Equal(t, []string{"spirits.vodka", "spirits.wine"}, inventory.IDs(s.Pool(inventory.CategorySpirits)))
	assert.Equal(t, []string{"mixers.coffee", "mixers.cola"}, inventory.IDs(s.Pool(inventory.CategoryMixers)))
	assert.Equal(t, []string{"additives.bitters"}, inventory.IDs(s.Pool(inventory.CategoryAdditives)))
	assert.Nil(t, s.Pool(inventory.CategorySecondaries))

	assert.Equal(t, []string{"whiskey.jim_beam"}, inventory.IDs(s.SubpoolItems("whiskey")))
	assert.Empty(t, s.SubpoolItems("missing"))
	assert.Equal(t, []string{"secondary.lime"}, inventory.IDs(s.SecondaryItems("citrus")))

	require.Len(t, s.Rules.HardBans, 1)
	require.Len(t, s.Rules.SoftRules, 1)
	assert.Equal(t, 0.25, s.Rules.SoftRules[0].Multiplier())
	assert.Empty(t, s.Validate())
}

func TestParse_RejectsUnknownVersion(t *testing.T) {
	_, err := inventory.Parse([]byte("version: 2\n"))
	assert.Error(t, err)
	_, err = inventory.Parse([]byte("version: [\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(snapshotYAML), 0o600))

	s, err := inventory.Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Inventory.Spirits, 4)

	_, err = inventory.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestItem_Accessors(t *testing.T) {
	w := 3.0
	it := inventory.Item{ID: "whiskey.jim_beam", Traits: []string{"bourbon"}, Weight: &w, RequiresSecondary: "citrus"}
	assert.Equal(t, "whiskey.jim_beam", it.ItemID())
	assert.True(t, it.HasTrait("bourbon"))
	assert.False(t, it.HasTrait("rye"))
	assert.Equal(t, 3.0, it.BaseWeight())
	assert.Equal(t, "whiskey", it.Family())
	assert.True(t, it.NeedsSecondary())
	assert.False(t, it.IsFamily())

	assert.Equal(t, 1.0, inventory.Item{ID: "x"}.BaseWeight())
	assert.Equal(t, "x", inventory.Item{ID: "x"}.Family())
}

func TestInRotation_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		flags := rapid.SliceOf(rapid.Bool()).Draw(rt, "flags")
		pool := make([]inventory.Item, len(flags))
		want := 0
		for i, f := range flags {
			pool[i] = inventory.Item{ID: string(rune('a' + i%26)), InRotation: f}
			if f {
				want++
			}
		}
		got := inventory.InRotation(pool)
		assert.Len(rt, got, want)
		for _, it := range got {
			assert.True(rt, it.InRotation)
		}
	})
}

func TestValidate_ReportsProblems(t *testing.T) {
	zero := 0.0
	s := &inventory.Snapshot{
		Version: 1,
		Inventory: inventory.Pools{
			Spirits: []inventory.Item{
				{ID: "whiskey", Kind: inventory.KindFamily, Subpool: "nope", InRotation: true},
				{ID: "spirits.gin", Weight: &zero, InRotation: true},
			},
			Mixers: []inventory.Item{
				{ID: "spirits.gin", InRotation: true},
				{ID: "mixers.cola", RequiresSecondary: "ghost", InRotation: true},
				{Name: "Nameless"},
			},
		},
	}
	problems := s.Validate()
	require.Len(t, problems, 5)
	assert.Contains(t, problems[0], "unknown subpool")
	assert.Contains(t, problems[1], "non-positive weight")
	assert.Contains(t, problems[2], "duplicate id")
	assert.Contains(t, problems[3], "unknown secondary pool")
	assert.Contains(t, problems[4], "empty id")
}
