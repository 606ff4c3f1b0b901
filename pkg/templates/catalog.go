// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package templates

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

// CreatureRow is the slice of a creature template the battlemaster check needs.
type CreatureRow struct {
	Entry        uint32 `json:"entry"`
	Battlemaster bool   `json:"battlemaster"`
}

// Catalog is the on-disk form of every load-time table.
type Catalog struct {
	Templates      []models.TemplateRow       `json:"templates"`
	Battlemasters  []models.BattlemasterEntry `json:"battlemaster_list"`
	MapAssignments []models.MapAssignment     `json:"maps"`
	KnownMaps      []uint32                   `json:"known_maps,omitempty"`
	StartLocations []models.StartLocation     `json:"start_locations"`
	Disabled       []uint32                   `json:"disabled,omitempty"`
	Brackets       []models.BracketRow        `json:"brackets"`
	Scripts        []models.ScriptRow         `json:"scripts,omitempty"`
	Creatures      []CreatureRow              `json:"creatures,omitempty"`
	NPCs           []models.BattlemasterRow   `json:"battlemasters,omitempty"`
}

// ReadCatalogFile decodes a catalog file.
func ReadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return DecodeCatalog(data)
}

func DecodeCatalog(data []byte) (*Catalog, error) {
	catalog := &Catalog{}
	if err := json.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return catalog, nil
}

type locationTable map[uint32]*models.StartLocation

func (l locationTable) StartLocation(id uint32) (*models.StartLocation, bool) {
	loc, ok := l[id]
	return loc, ok
}

type disabledSet map[models.TypeID]struct{}

func (d disabledSet) IsDisabled(typeID models.TypeID) bool {
	_, ok := d[typeID]
	return ok
}

type creatureTable []CreatureRow

func (c creatureTable) Creature(entry uint32) (bool, bool) {
	for _, row := range c {
		if row.Entry == entry {
			return true, row.Battlemaster
		}
	}
	return false, false
}

func (c creatureTable) FlaggedBattlemasters() []uint32 {
	var entries []uint32
	for _, row := range c {
		if row.Battlemaster {
			entries = append(entries, row.Entry)
		}
	}
	return entries
}

func (c *Catalog) knownMaps() map[uint32]struct{} {
	if len(c.KnownMaps) == 0 {
		return nil
	}
	known := make(map[uint32]struct{}, len(c.KnownMaps))
	for _, mapID := range c.KnownMaps {
		known[mapID] = struct{}{}
	}
	return known
}

// Source converts the catalog into the registry input.
func (c *Catalog) Source() Source {
	locations := make(locationTable, len(c.StartLocations))
	for i := range c.StartLocations {
		loc := c.StartLocations[i]
		locations[loc.ID] = &loc
	}
	disabled := make(disabledSet, len(c.Disabled))
	for _, id := range c.Disabled {
		disabled[models.TypeID(id)] = struct{}{}
	}

	return Source{
		Templates:      c.Templates,
		Battlemasters:  c.Battlemasters,
		MapAssignments: c.MapAssignments,
		KnownMaps:      c.knownMaps(),
		Locations:      locations,
		Disabled:       disabled,
	}
}

// Tables groups the catalogs filled from one Catalog.
type Tables struct {
	Registry      *Registry
	Brackets      *BracketTable
	Scripts       *ScriptTable
	Battlemasters *BattlemasterTable
}

func NewTables() *Tables {
	return &Tables{
		Registry:      NewRegistry(),
		Brackets:      NewBracketTable(),
		Scripts:       NewScriptTable(),
		Battlemasters: NewBattlemasterTable(),
	}
}

// Load fills every table in dependency order and returns the combined diagnostics.
func (t *Tables) Load(rootScope *envelope.Scope, catalog *Catalog) LoadResult {
	scope := rootScope.NewChildScope("templates.Tables.Load")
	defer scope.Finish()

	combined := LoadResult{}
	merge := func(result LoadResult) {
		combined.Loaded += result.Loaded
		combined.Errors = append(combined.Errors, result.Errors...)
	}

	merge(t.Registry.Load(scope, catalog.Source()))
	merge(t.Brackets.Load(scope, catalog.Brackets))
	merge(t.Scripts.Load(scope, catalog.Scripts, t.Registry, catalog.knownMaps()))
	if len(catalog.Creatures) > 0 || len(catalog.NPCs) > 0 {
		merge(t.Battlemasters.Load(scope, catalog.NPCs, creatureTable(catalog.Creatures), t.Registry))
	}

	return combined
}
