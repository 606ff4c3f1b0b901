// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package templates

import (
	"errors"
	"sync"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

var (
	ErrCreatureNotFound    = errors.New("creature does not exist")
	ErrNotABattlemaster    = errors.New("creature is not flagged as battlemaster")
	ErrMissingBattlemaster = errors.New("creature is flagged as battlemaster but has no entry")
)

// CreatureCatalog answers questions about creature templates.
type CreatureCatalog interface {
	// Creature reports whether the entry exists and whether it carries the battlemaster flag.
	Creature(entry uint32) (exists bool, battlemaster bool)
	// FlaggedBattlemasters lists every creature entry with the battlemaster flag.
	FlaggedBattlemasters() []uint32
}

// BattlemasterTable maps battlemaster creatures to the type they offer.
type BattlemasterTable struct {
	mu      sync.RWMutex
	entries map[uint32]models.TypeID
}

func NewBattlemasterTable() *BattlemasterTable {
	return &BattlemasterTable{entries: map[uint32]models.TypeID{}}
}

// Load replaces the table. A row naming a creature without the battlemaster flag is
// kept but reported; rows naming unknown creatures or types are skipped. The returned
// result also reports every flagged creature left without an entry.
func (b *BattlemasterTable) Load(scope *envelope.Scope, rows []models.BattlemasterRow, creatures CreatureCatalog, registry *Registry) LoadResult {
	result := LoadResult{}
	entries := make(map[uint32]models.TypeID, len(rows))
	report := func(err *RowError) {
		result.Errors = append(result.Errors, err)
		scope.Log.Error(err.Error())
	}

	for _, row := range rows {
		exists, flagged := creatures.Creature(row.Entry)
		if !exists {
			report(&RowError{TypeID: row.TypeID, Field: "entry", Err: ErrCreatureNotFound})
			continue
		}
		if !flagged {
			report(&RowError{TypeID: row.TypeID, Field: "entry", Err: ErrNotABattlemaster})
		}
		if _, ok := registry.FindByTypeID(models.TypeID(row.TypeID)); !ok {
			report(&RowError{TypeID: row.TypeID, Field: "bg_template", Err: models.ValidationErrorUnknownType})
			continue
		}
		entries[row.Entry] = models.TypeID(row.TypeID)
		result.Loaded++
	}

	missing := pie.Filter(creatures.FlaggedBattlemasters(), func(entry uint32) bool {
		_, ok := entries[entry]
		return !ok
	})
	for _, entry := range pie.Sort(missing) {
		report(&RowError{TypeID: entry, Field: "entry", Err: ErrMissingBattlemaster})
	}

	b.mu.Lock()
	b.entries = entries
	b.mu.Unlock()

	return result
}

// TypeFor returns the type offered by a battlemaster creature.
func (b *BattlemasterTable) TypeFor(entry uint32) (models.TypeID, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	typeID, ok := b.entries[entry]
	return typeID, ok
}
