// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package templates

import (
	"sync"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

type bracketKey struct {
	mapID   uint32
	bracket models.BracketID
}

// BracketTable holds the level brackets of every battleground map.
type BracketTable struct {
	mu       sync.RWMutex
	brackets map[bracketKey]models.Bracket
	byMap    map[uint32][]models.Bracket
}

func NewBracketTable() *BracketTable {
	return &BracketTable{
		brackets: map[bracketKey]models.Bracket{},
		byMap:    map[uint32][]models.Bracket{},
	}
}

// Load replaces the table. Invalid rows are skipped and reported.
func (b *BracketTable) Load(scope *envelope.Scope, rows []models.BracketRow) LoadResult {
	result := LoadResult{}
	brackets := make(map[bracketKey]models.Bracket, len(rows))
	byMap := map[uint32][]models.Bracket{}

	for i := range rows {
		row := rows[i]
		if err := row.Validate(); err != nil {
			result.Errors = append(result.Errors, &RowError{Field: "bracket", Err: err})
			scope.Log.Errorf("bracket row for map %d bracket %d skipped: %s", row.MapID, row.BracketID, err)
			continue
		}
		bracket := models.Bracket{
			MapID:    row.MapID,
			ID:       models.BracketID(row.BracketID),
			MinLevel: uint8(row.MinLevel),
			MaxLevel: uint8(row.MaxLevel),
		}
		brackets[bracketKey{mapID: row.MapID, bracket: bracket.ID}] = bracket
		result.Loaded++
	}

	for _, bracket := range brackets {
		byMap[bracket.MapID] = append(byMap[bracket.MapID], bracket)
	}
	for mapID, list := range byMap {
		byMap[mapID] = pie.SortUsing(list, func(a, b models.Bracket) bool { return a.ID < b.ID })
	}

	b.mu.Lock()
	b.brackets = brackets
	b.byMap = byMap
	b.mu.Unlock()

	return result
}

// BracketByID returns the bracket entry of a map.
func (b *BracketTable) BracketByID(mapID uint32, id models.BracketID) (models.Bracket, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bracket, ok := b.brackets[bracketKey{mapID: mapID, bracket: id}]
	return bracket, ok
}

// BracketByLevel returns the first bracket of a map containing level.
func (b *BracketTable) BracketByLevel(mapID uint32, level uint8) (models.Bracket, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, bracket := range b.byMap[mapID] {
		if bracket.ContainsLevel(level) {
			return bracket, true
		}
	}
	return models.Bracket{}, false
}
