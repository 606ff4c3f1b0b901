// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package manager

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground"
	"github.com/AccelByte/extend-battleground-manager/pkg/constants"
	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

var (
	ErrTemplateNotFound  = errors.New("battleground template not found")
	ErrBracketNotFound   = errors.New("battleground bracket entry not found")
	ErrDuplicateInstance = errors.New("battleground instance id already in use")
)

// CreateInstance builds a new instance for a queue pop. The template is drawn from the
// map pool of the queue's type by weight, the bracket comes from the first map of the
// drawn template. The instance is registered in WaitJoin state but not opened to late
// joiners. On failure nothing stays allocated.
func (m *Manager) CreateInstance(rootScope *envelope.Scope, queueID models.QueueTypeID, bracketID models.BracketID) (*battleground.Instance, error) {
	scope := rootScope.NewChildScope("manager.CreateInstance")
	defer scope.Finish()
	scope.SetAttributes(envelope.QueueIDTag, queueID)
	scope.SetAttributes(envelope.BracketIDTag, uint8(bracketID))

	started := time.Now()
	defer func() {
		if m.metrics != nil {
			m.metrics.AddElapsedTimeMs(constants.CreateInstanceFunction, time.Since(started))
		}
	}()

	typeID := m.RandomTypeID(queueID.TypeID())
	template, ok := m.registry.FindByTypeID(typeID)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrTemplateNotFound, typeID)
		m.creationFailed(scope, queueID, constants.ReasonTemplateNotFound, err)
		return nil, err
	}
	scope.SetAttributes(envelope.TypeIDTag, uint32(typeID))

	mapID, _ := template.FirstMapID()
	bracket, ok := m.brackets.BracketByID(mapID, bracketID)
	if !ok {
		err := fmt.Errorf("%w: map %d bracket %d", ErrBracketNotFound, mapID, bracketID)
		m.creationFailed(scope, queueID, constants.ReasonBracketNotFound, err)
		return nil, err
	}

	instanceID := m.instanceIDs.GenerateInstanceID()
	scope.SetAttributes(envelope.InstanceIDTag, instanceID)
	clientID := m.directory.AllocateClientID(typeID, bracket.ID)

	var script battleground.Script
	if m.scripts != nil {
		script = m.scripts.NewScript(template, mapID)
	}

	inst := battleground.NewInstance(battleground.Params{
		Template:   template,
		TypeID:     typeID,
		InstanceID: instanceID,
		ClientID:   clientID,
		Bracket:    bracket,
		MapID:      mapID,
		TeamSize:   queueID.TeamSize,
		Rated:      queueID.Rated,
		Script:     script,
	})

	if err := startJoining(inst); err != nil {
		m.directory.ReleaseClientID(typeID, bracket.ID, clientID)
		m.creationFailed(scope, queueID, constants.ReasonInvalidTransition, err)
		return nil, err
	}

	if _, err := m.directory.Insert(inst); err != nil {
		m.directory.ReleaseClientID(typeID, bracket.ID, clientID)
		err = fmt.Errorf("%w: %w", ErrDuplicateInstance, err)
		scope.RecordError(err)
		scope.Log.WithError(err).WithField("instanceID", instanceID).
			Error("instance id allocator returned an id that is still registered")
		if m.metrics != nil {
			m.metrics.AddCreationFailure(queueID.String(), constants.ReasonDuplicateInstance)
		}
		return nil, err
	}

	if m.metrics != nil {
		m.metrics.InstanceCreated(uint32(typeID), uint8(bracket.ID))
	}
	scope.Log.Debugf("created battleground %d (type %s, client id %d, map %d, bracket %d)",
		instanceID, typeID, clientID, mapID, bracket.ID)
	m.notifyCreated(inst)

	return inst, nil
}

// startJoining runs the two transitions of a fresh instance: Reset puts it in WaitQueue,
// then joining starts.
func startJoining(inst *battleground.Instance) error {
	if err := inst.Reset(); err != nil {
		return err
	}
	return inst.SetStatus(battleground.StatusWaitJoin)
}

func (m *Manager) creationFailed(scope *envelope.Scope, queueID models.QueueTypeID, reason string, err error) {
	scope.RecordError(err)
	scope.Log.WithField("queue", queueID.String()).Error(err.Error())
	if m.metrics != nil {
		m.metrics.AddCreationFailure(queueID.String(), reason)
	}
}

// RandomTypeID resolves a type to the concrete template of one of its maps, drawn with
// probability proportional to the template weights. It returns TypeNone when the type
// is unknown or none of its maps resolves to a template.
func (m *Manager) RandomTypeID(typeID models.TypeID) models.TypeID {
	template, ok := m.registry.FindByTypeID(typeID)
	if !ok {
		return models.TypeNone
	}

	candidates := m.pool.Candidates.Get()[:0]
	weights := m.pool.Weights.Get()[:0]
	defer func() {
		m.pool.Candidates.Put(candidates[:0])
		m.pool.Weights.Put(weights[:0])
	}()

	for _, mapID := range template.MapIDs {
		if candidate, ok := m.registry.FindByMapID(mapID); ok {
			candidates = append(candidates, candidate)
			weights = append(weights, float64(candidate.Weight))
		}
	}
	if len(candidates) == 0 {
		return models.TypeNone
	}

	idx, ok := m.pickWeighted(weights)
	if !ok {
		return models.TypeNone
	}
	return candidates[idx].ID
}

// pickWeighted draws one index. Zero weights are never drawn unless every weight is
// zero, in which case the draw is uniform.
func (m *Manager) pickWeighted(weights []float64) (int, bool) {
	if len(weights) == 1 {
		return 0, true
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
	}

	if m.randSource == nil {
		sampler := sampleuv.NewWeighted(weights, nil)
		return sampler.Take()
	}

	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	sampler := sampleuv.NewWeighted(weights, m.randSource)
	return sampler.Take()
}
