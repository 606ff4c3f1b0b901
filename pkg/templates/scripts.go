// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package templates

import (
	"fmt"
	"sync"

	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

type scriptKey struct {
	mapID  uint32
	typeID models.TypeID
}

// ScriptTable binds in-match scripts to maps.
type ScriptTable struct {
	mu      sync.RWMutex
	scripts map[scriptKey]string
}

func NewScriptTable() *ScriptTable {
	return &ScriptTable{scripts: map[scriptKey]string{}}
}

// Load replaces the table. Rows on unknown maps, or naming a type missing from the
// registry, are skipped with a diagnostic.
func (s *ScriptTable) Load(scope *envelope.Scope, rows []models.ScriptRow, registry *Registry, knownMaps map[uint32]struct{}) LoadResult {
	result := LoadResult{}
	scripts := make(map[scriptKey]string, len(rows))

	for _, row := range rows {
		if knownMaps != nil {
			if _, ok := knownMaps[row.MapID]; !ok {
				err := &RowError{TypeID: row.TypeID, Field: "script", Err: fmt.Errorf("%w: %d", models.ValidationErrorUnknownMap, row.MapID)}
				result.Errors = append(result.Errors, err)
				scope.Log.Error(err.Error())
				continue
			}
		}
		typeID := models.TypeID(row.TypeID)
		if typeID != models.TypeNone {
			if _, ok := registry.FindByTypeID(typeID); !ok {
				err := &RowError{TypeID: row.TypeID, Field: "script", Err: models.ValidationErrorUnknownType}
				result.Errors = append(result.Errors, err)
				scope.Log.Error(err.Error())
				continue
			}
		}
		scripts[scriptKey{mapID: row.MapID, typeID: typeID}] = row.ScriptName
		result.Loaded++
	}

	s.mu.Lock()
	s.scripts = scripts
	s.mu.Unlock()

	scope.Log.Infof(">> Loaded %d battleground scripts", result.Loaded)

	return result
}

// Find returns the script of a map for a type, falling back to the script bound
// to the map for every type.
func (s *ScriptTable) Find(mapID uint32, typeID models.TypeID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name, ok := s.scripts[scriptKey{mapID: mapID, typeID: typeID}]; ok {
		return name, true
	}
	name, ok := s.scripts[scriptKey{mapID: mapID, typeID: models.TypeNone}]
	return name, ok
}
