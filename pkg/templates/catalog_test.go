// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package templates

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-battleground-manager/pkg/models"
	"github.com/AccelByte/extend-battleground-manager/pkg/testsetup"
)

const catalogJSON = `{
  "templates": [
    {"id": 2, "alliance_start_loc": 1, "horde_start_loc": 2, "start_max_dist": 75, "weight": 1},
    {"id": 3, "alliance_start_loc": 3, "horde_start_loc": 4, "start_max_dist": 75, "weight": 1},
    {"id": 32, "weight": 1}
  ],
  "battlemaster_list": [
    {"id": 2, "kind": 0, "min_players": 10, "max_players": 10, "min_level": 10, "max_level": 80},
    {"id": 3, "kind": 0, "min_players": 15, "max_players": 15, "min_level": 20, "max_level": 80},
    {"id": 32, "kind": 0, "min_players": 10, "max_players": 15, "min_level": 10, "max_level": 80}
  ],
  "maps": [
    {"type_id": 2, "map_id": 489},
    {"type_id": 3, "map_id": 529},
    {"type_id": 32, "map_id": 489},
    {"type_id": 32, "map_id": 529}
  ],
  "start_locations": [
    {"id": 1, "map_id": 489, "x": 1.5, "y": 2, "z": 3, "orientation": 3.14},
    {"id": 2, "map_id": 489},
    {"id": 3, "map_id": 529},
    {"id": 4, "map_id": 529}
  ],
  "disabled": [3],
  "brackets": [
    {"map_id": 489, "bracket_id": 0, "min_level": 10, "max_level": 80},
    {"map_id": 529, "bracket_id": 0, "min_level": 20, "max_level": 80}
  ],
  "scripts": [
    {"map_id": 489, "script_name": "warsong_gulch"}
  ],
  "creatures": [
    {"entry": 14981, "battlemaster": true}
  ],
  "battlemasters": [
    {"entry": 14981, "bg_template": 2}
  ]
}`

func TestDecodeCatalog(t *testing.T) {
	catalog, err := DecodeCatalog([]byte(catalogJSON))
	require.NoError(t, err)

	assert.Len(t, catalog.Templates, 3)
	require.NotNil(t, catalog.Templates[0].AllianceStartLoc)
	assert.Equal(t, uint32(1), *catalog.Templates[0].AllianceStartLoc)
	assert.Nil(t, catalog.Templates[2].HordeStartLoc)
	assert.Equal(t, float32(1.5), catalog.StartLocations[0].X)
	assert.Equal(t, []uint32{3}, catalog.Disabled)
	assert.Equal(t, models.BattlemasterRow{Entry: 14981, TypeID: 2}, catalog.NPCs[0])

	_, err = DecodeCatalog([]byte(`{"templates": [`))
	assert.Error(t, err)
}

func TestTables_Load(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	path := filepath.Join(t.TempDir(), "catalog.json")
	g.Expect(os.WriteFile(path, []byte(catalogJSON), 0o600)).To(Succeed())
	catalog, err := ReadCatalogFile(path)
	g.Expect(err).ToNot(HaveOccurred())

	tables := NewTables()
	result := tables.Load(g.TestScope, catalog)

	// two templates, two brackets, one script and one battlemaster
	g.Expect(result.Loaded).To(Equal(6))
	g.Expect(result.Errors).To(HaveLen(1))
	g.Expect(result.Errors[0]).To(MatchError(ErrTemplateDisabled))

	g.Expect(tables.Registry.TypeIDs()).To(Equal([]models.TypeID{warsong, random}))
	_, ok := tables.Brackets.BracketByID(mapArathi, 0)
	g.Expect(ok).To(BeTrue())
	name, ok := tables.Scripts.Find(mapWarsong, warsong)
	g.Expect(ok).To(BeTrue())
	g.Expect(name).To(Equal("warsong_gulch"))
	typeID, ok := tables.Battlemasters.TypeFor(14981)
	g.Expect(ok).To(BeTrue())
	g.Expect(typeID).To(Equal(warsong))
}

func TestReadCatalogFile_Missing(t *testing.T) {
	_, err := ReadCatalogFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
