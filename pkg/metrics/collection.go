// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type BattlegroundMetrics interface {
	InstanceCreated(typeID uint32, bracket uint8)
	InstanceReaped(typeID uint32, bracket uint8)
	AddCreationFailure(queue string, reason string)
	AddScheduledQueueUpdates(count int)
	AddForcedRatedSweep()
	AddElapsedTimeMs(function string, elapsedTime time.Duration)
	FreeSlotOpenInstances(mapID uint32, count int)
}

func NewMetrics(registry *prometheus.Registry) BattlegroundMetrics {
	return setupPrometheusMetrics(registry)
}
