// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package templates holds the load-time catalogs of the battleground manager: match
// templates, brackets, scripts and battlemasters. Catalogs are read-only after load;
// a reload builds a fresh snapshot and swaps it in atomically.
package templates

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/mitchellh/copystructure"

	"github.com/AccelByte/extend-battleground-manager/pkg/common"
	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

var ErrTemplateDisabled = errors.New("template is disabled")

// StartLocationResolver looks up world safe locations by id.
type StartLocationResolver interface {
	StartLocation(id uint32) (*models.StartLocation, bool)
}

// DisabledChecker reports types switched off by the operator.
type DisabledChecker interface {
	IsDisabled(typeID models.TypeID) bool
}

// Source is everything a template load consumes.
type Source struct {
	Templates      []models.TemplateRow
	Battlemasters  []models.BattlemasterEntry
	MapAssignments []models.MapAssignment
	// KnownMaps restricts map assignments to existing maps. A nil set accepts every map.
	KnownMaps map[uint32]struct{}
	Locations StartLocationResolver
	Disabled  DisabledChecker
}

// RowError is the diagnostic of one skipped or partially ignored row.
type RowError struct {
	TypeID uint32
	Field  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("template %d: %s", e.TypeID, e.Err)
	}
	return fmt.Sprintf("template %d field %s: %s", e.TypeID, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// LoadResult reports the outcome of a load. Errors never abort the load.
type LoadResult struct {
	Loaded int
	Errors []error
}

type snapshot struct {
	byType map[models.TypeID]*models.MatchTemplate
	byMap  map[uint32]*models.MatchTemplate
}

var emptySnapshot = &snapshot{
	byType: map[models.TypeID]*models.MatchTemplate{},
	byMap:  map[uint32]*models.MatchTemplate{},
}

// Registry is the template catalog.
type Registry struct {
	current atomic.Pointer[snapshot]
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(emptySnapshot)
	return r
}

// FindByTypeID returns the template of a type.
func (r *Registry) FindByTypeID(id models.TypeID) (*models.MatchTemplate, bool) {
	t, ok := r.current.Load().byType[id]
	return t, ok
}

// FindByMapID returns the single template owning a map. Maps shared by
// several templates, or belonging only to multi-map categories, are not indexed.
func (r *Registry) FindByMapID(mapID uint32) (*models.MatchTemplate, bool) {
	t, ok := r.current.Load().byMap[mapID]
	return t, ok
}

// TypeIDs returns the loaded type ids in ascending order.
func (r *Registry) TypeIDs() []models.TypeID {
	return pie.Sort(pie.Keys(r.current.Load().byType))
}

func (r *Registry) Len() int {
	return len(r.current.Load().byType)
}

// Load replaces the whole catalog.
func (r *Registry) Load(rootScope *envelope.Scope, source Source) LoadResult {
	scope := rootScope.NewChildScope("templates.Registry.Load")
	defer scope.Finish()

	started := time.Now()
	previous := r.current.Load()
	next := &snapshot{
		byType: make(map[models.TypeID]*models.MatchTemplate, len(source.Templates)),
		byMap:  make(map[uint32]*models.MatchTemplate),
	}
	result := LoadResult{}
	report := func(err error) {
		result.Errors = append(result.Errors, err)
		scope.Log.WithField("code", models.ValidationErrorCode(err)).Error(err.Error())
	}

	entries := make(map[uint32]models.BattlemasterEntry, len(source.Battlemasters))
	for _, entry := range source.Battlemasters {
		if err := entry.Validate(); err != nil {
			report(&RowError{TypeID: entry.ID, Field: "battlemaster", Err: err})
			continue
		}
		entries[entry.ID] = entry
	}

	mapsByType := make(map[uint32][]uint32)
	for _, assignment := range source.MapAssignments {
		if _, ok := entries[assignment.TypeID]; !ok {
			continue
		}
		if source.KnownMaps != nil {
			if _, ok := source.KnownMaps[assignment.MapID]; !ok {
				report(&RowError{TypeID: assignment.TypeID, Field: "map", Err: fmt.Errorf("%w: %d", models.ValidationErrorUnknownMap, assignment.MapID)})
				continue
			}
		}
		mapsByType[assignment.TypeID] = append(mapsByType[assignment.TypeID], assignment.MapID)
	}

	for i := range source.Templates {
		row := source.Templates[i]
		if err := row.Validate(); err != nil {
			report(&RowError{TypeID: row.ID, Err: err})
			continue
		}

		typeID := models.TypeID(row.ID)
		if source.Disabled != nil && source.Disabled.IsDisabled(typeID) {
			result.Errors = append(result.Errors, &RowError{TypeID: row.ID, Err: ErrTemplateDisabled})
			scope.Log.Debugf("template %d is disabled, skipped", row.ID)
			continue
		}

		entry, ok := entries[row.ID]
		if !ok {
			report(&RowError{TypeID: row.ID, Err: models.ValidationErrorUnknownType})
			continue
		}

		template := &models.MatchTemplate{
			ID:                typeID,
			Kind:              entry.Kind,
			MapIDs:            mapsByType[row.ID],
			MinPlayersPerTeam: uint16(entry.MinPlayers),
			MaxPlayersPerTeam: uint16(entry.MaxPlayers),
			MinLevel:          uint8(entry.MinLevel),
			MaxLevel:          uint8(entry.MaxLevel),
			Weight:            uint8(row.Weight),
			MaxStartDistSq:    row.StartMaxDist * row.StartMaxDist,
			ScriptName:        row.ScriptName,
		}

		if template.RequiresStartLocations() {
			var prev *models.MatchTemplate
			if previous != nil {
				prev = previous.byType[typeID]
			}
			startIDs := [models.TeamCount]*uint32{row.AllianceStartLoc, row.HordeStartLoc}
			fields := [models.TeamCount]string{"alliance_start_loc", "horde_start_loc"}
			resolved := true
			for team := models.TeamAlliance; team < models.TeamCount; team++ {
				loc, err := resolveStartLocation(source.Locations, startIDs[team])
				if err == nil {
					template.StartLocations[team] = loc
					continue
				}
				if prev != nil && prev.StartLocations[team] != nil {
					// reload keeps the location of the previous catalog
					template.StartLocations[team] = copyStartLocation(scope, prev.StartLocations[team])
					report(&RowError{TypeID: row.ID, Field: fields[team], Err: fmt.Errorf("%w, ignoring", err)})
					continue
				}
				report(&RowError{TypeID: row.ID, Field: fields[team], Err: fmt.Errorf("%w, template not created", err)})
				resolved = false
				break
			}
			if !resolved {
				continue
			}
		}

		next.byType[typeID] = template
		result.Loaded++
		scope.Log.Tracef("loaded template %s", common.LogJSONFormatter(template))
	}

	indexByMap(next, report)
	r.current.Store(next)

	scope.Log.Infof(">> Loaded %d battlegrounds in %d ms", result.Loaded, time.Since(started).Milliseconds())

	return result
}

func resolveStartLocation(locations StartLocationResolver, id *uint32) (*models.StartLocation, error) {
	if id == nil {
		return nil, fmt.Errorf("%w: missing", models.ValidationErrorStartLocation)
	}
	if locations == nil {
		return nil, fmt.Errorf("%w: %d", models.ValidationErrorStartLocation, *id)
	}
	loc, ok := locations.StartLocation(*id)
	if !ok || loc == nil {
		return nil, fmt.Errorf("%w: %d", models.ValidationErrorStartLocation, *id)
	}
	return loc, nil
}

func copyStartLocation(scope *envelope.Scope, loc *models.StartLocation) *models.StartLocation {
	copied, err := copystructure.Copy(loc)
	if err != nil {
		scope.Log.Warn("failed copy start location:", err)
		return loc
	}
	copiedLoc, _ := copied.(*models.StartLocation)
	return copiedLoc
}

// indexByMap fills the reverse index with single-map templates. A map claimed by two
// single-map templates is ambiguous and left out.
func indexByMap(next *snapshot, report func(error)) {
	ambiguous := map[uint32]struct{}{}
	for _, typeID := range pie.Sort(pie.Keys(next.byType)) {
		template := next.byType[typeID]
		if len(template.MapIDs) != 1 {
			continue
		}
		mapID := template.MapIDs[0]
		if _, ok := ambiguous[mapID]; ok {
			continue
		}
		if owner, ok := next.byMap[mapID]; ok {
			report(&RowError{TypeID: uint32(typeID), Field: "map", Err: fmt.Errorf("%w: map %d also owned by %d", models.ValidationErrorAmbiguousMap, mapID, owner.ID)})
			delete(next.byMap, mapID)
			ambiguous[mapID] = struct{}{}
			continue
		}
		next.byMap[mapID] = template
	}
}
