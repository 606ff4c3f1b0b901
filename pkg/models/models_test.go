// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-openapi/swag"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"github.com/AccelByte/extend-battleground-manager/pkg/constants"
)

func TestTypeID(t *testing.T) {
	g := NewGomegaWithT(t)

	g.Expect(TypeID(constants.TypeNagrand).IsArena()).To(BeTrue())
	g.Expect(TypeID(constants.TypeAllArenas).IsArena()).To(BeTrue())
	g.Expect(TypeID(constants.TypeWarsong).IsArena()).To(BeFalse())
	g.Expect(TypeID(constants.TypeRandom).IsRandom()).To(BeTrue())
	g.Expect(TypeID(constants.TypeRandomEpic).IsRandom()).To(BeTrue())
	g.Expect(TypeID(constants.TypeArathi).IsRandom()).To(BeFalse())
	g.Expect(TypeID(2).String()).To(Equal("bg-type-2"))
}

func TestMatchTemplate(t *testing.T) {
	g := NewGomegaWithT(t)

	ws := &MatchTemplate{ID: TypeID(constants.TypeWarsong), MapIDs: []uint32{489}}
	mapID, ok := ws.FirstMapID()
	g.Expect(ok).To(BeTrue())
	g.Expect(mapID).To(Equal(uint32(489)))
	g.Expect(ws.RequiresStartLocations()).To(BeTrue())

	_, ok = (&MatchTemplate{}).FirstMapID()
	g.Expect(ok).To(BeFalse())
	g.Expect((&MatchTemplate{ID: TypeID(constants.TypeAllArenas)}).RequiresStartLocations()).To(BeFalse())
	g.Expect((&MatchTemplate{ID: TypeID(constants.TypeRandom)}).RequiresStartLocations()).To(BeFalse())

	bracket := Bracket{MinLevel: 10, MaxLevel: 19}
	g.Expect(bracket.ContainsLevel(10)).To(BeTrue())
	g.Expect(bracket.ContainsLevel(19)).To(BeTrue())
	g.Expect(bracket.ContainsLevel(20)).To(BeFalse())
}

func TestIsValidQueueID(t *testing.T) {
	battleground := &MatchTemplate{Kind: KindBattleground}
	arena := &MatchTemplate{Kind: KindArena}

	tests := []struct {
		name     string
		queueID  QueueTypeID
		template *MatchTemplate
		want     bool
	}{
		{"battleground", QueueTypeID{Type: QueueBattleground}, battleground, true},
		{"battleground on arena template", QueueTypeID{Type: QueueBattleground}, arena, false},
		{"battleground with team size", QueueTypeID{Type: QueueBattleground, TeamSize: 3}, battleground, false},
		{"rated arena", QueueTypeID{Type: QueueArena, Rated: true, TeamSize: 2}, arena, true},
		{"unrated arena", QueueTypeID{Type: QueueArena, TeamSize: 2}, arena, false},
		{"arena without team size", QueueTypeID{Type: QueueArena, Rated: true}, arena, false},
		{"wargame", QueueTypeID{Type: QueueWargame}, arena, true},
		{"rated wargame", QueueTypeID{Type: QueueWargame, Rated: true}, arena, false},
		{"skirmish 3v3", QueueTypeID{Type: QueueArenaSkirmish, Rated: true, TeamSize: 3}, arena, true},
		{"skirmish 2v2", QueueTypeID{Type: QueueArenaSkirmish, Rated: true, TeamSize: 2}, arena, false},
		{"cheat test", QueueTypeID{Type: QueueCheatTest}, battleground, false},
		{"no template", QueueTypeID{Type: QueueBattleground}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidQueueID(tt.queueID, tt.template))
		})
	}
}

func TestRatedArenaQueueID(t *testing.T) {
	q := RatedArenaQueueID(constants.ArenaType5v5)
	assert.Equal(t, TypeID(constants.TypeAllArenas), q.TypeID())
	assert.True(t, q.Rated)
	assert.Equal(t, QueueArena, q.Type)
	assert.Equal(t, "queue-6-1-rated:true-5v5", q.String())
}

func TestWeekendHoliday(t *testing.T) {
	assert.Equal(t, HolidayCallToArmsWG, WeekendHoliday(TypeID(constants.TypeWarsong)))
	assert.Equal(t, HolidayNone, WeekendHoliday(TypeID(constants.TypeNagrand)))

	for typeID, holiday := range weekendHolidays {
		assert.Equal(t, typeID, TypeForWeekendHoliday(holiday))
	}
	assert.Equal(t, TypeNone, TypeForWeekendHoliday(HolidayID(1)))
}

func TestRowValidation(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"valid template", (&TemplateRow{ID: 2, AllianceStartLoc: swag.Uint32(1), Weight: 1}).Validate(), nil},
		{"zero id", (&TemplateRow{}).Validate(), ValidationErrorZeroTypeID},
		{"negative distance", (&TemplateRow{ID: 2, StartMaxDist: -5}).Validate(), ValidationErrorNegativeDistance},
		{"team size", (&BattlemasterEntry{ID: 2, MinPlayers: 10, MaxPlayers: 5}).Validate(), ValidationErrorTeamSize},
		{"entry levels", (&BattlemasterEntry{ID: 2, MinLevel: 80, MaxLevel: 10}).Validate(), ValidationErrorLevelRange},
		{"bracket levels", (&BracketRow{MapID: 489, MinLevel: 30, MaxLevel: 20}).Validate(), ValidationErrorLevelRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				assert.NoError(t, tt.err)
				return
			}
			assert.ErrorIs(t, tt.err, tt.wantErr)
		})
	}

	assert.Error(t, (&TemplateRow{ID: 2, Weight: 256}).Validate())
	assert.Error(t, (&BracketRow{MapID: 489, BracketID: -1}).Validate())
}

func TestValidationErrorCode(t *testing.T) {
	assert.Equal(t, 520101, ValidationErrorCode(ValidationErrorZeroTypeID))
	assert.Equal(t, 520107, ValidationErrorCode(fmt.Errorf("%w: 404", ValidationErrorStartLocation)))
	assert.Equal(t, 20002, ValidationErrorCode(errors.New("boom")))
}

func TestPool(t *testing.T) {
	pool := NewPool()
	weights := pool.Weights.Get()
	assert.Empty(t, weights)
	assert.GreaterOrEqual(t, cap(weights), 8)
	pool.Weights.Put(append(weights[:0], 1, 2))
	assert.Empty(t, pool.Candidates.Get())
}

func TestPool_ConcurrentGet(t *testing.T) {
	pool := NewPool()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				weights := append(pool.Weights.Get()[:0], float64(i))
				candidates := pool.Candidates.Get()[:0]
				pool.Weights.Put(weights[:0])
				pool.Candidates.Put(candidates)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, pool.Weights.Get())
}
