// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	liveInstances          prometheus.GaugeVec
	instancesCreated       prometheus.CounterVec
	instancesReaped        prometheus.CounterVec
	creationFailures       prometheus.CounterVec
	scheduledQueueUpdates  prometheus.Counter
	forcedRatedSweeps      prometheus.Counter
	functionElapsedTime    prometheus.HistogramVec
	freeSlotOpenInstances  prometheus.GaugeVec
	schedulerPendingUpdate prometheus.Gauge
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)
	typeLabelDimensions := []string{"bg_type", "bracket"}

	liveInstances := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ab_bg_live_instances",
			Help: "Number of live battleground instances per type and bracket",
		}, typeLabelDimensions)

	instancesCreated := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_bg_instances_created_total",
			Help: "Number of battleground instances created",
		}, typeLabelDimensions)

	instancesReaped := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_bg_instances_reaped_total",
			Help: "Number of finished battleground instances removed by the sweep",
		}, typeLabelDimensions)

	creationFailures := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_bg_instance_creation_failures_total",
			Help: "Number of failed instance creations per reason",
		}, []string{"queue", "reason"})

	scheduledQueueUpdates := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "ab_bg_scheduled_queue_updates_total",
			Help: "Number of coalesced queue updates applied",
		})

	forcedRatedSweeps := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "ab_bg_forced_rated_sweeps_total",
			Help: "Number of forced rated arena queue sweeps",
		})

	//nolint:promlinter
	functionElapsedTime := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ab_bg_function_elapsed_time_ms",
			Help:    "A histogram of manager functions elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"function"})

	freeSlotOpenInstances := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ab_bg_free_slot_open_instances",
			Help: "Number of instances accepting late joiners per map",
		}, []string{"map"})

	schedulerPendingUpdate := factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ab_bg_scheduler_pending_updates",
			Help: "Number of distinct queue updates drained in the last tick",
		})

	return prometheusMetrics{
		liveInstances:          *liveInstances,
		instancesCreated:       *instancesCreated,
		instancesReaped:        *instancesReaped,
		creationFailures:       *creationFailures,
		scheduledQueueUpdates:  scheduledQueueUpdates,
		forcedRatedSweeps:      forcedRatedSweeps,
		functionElapsedTime:    *functionElapsedTime,
		freeSlotOpenInstances:  *freeSlotOpenInstances,
		schedulerPendingUpdate: schedulerPendingUpdate,
	}
}

func typeLabels(typeID uint32, bracket uint8) prometheus.Labels {
	return prometheus.Labels{"bg_type": strconv.FormatUint(uint64(typeID), 10), "bracket": strconv.Itoa(int(bracket))}
}

func (metrics prometheusMetrics) InstanceCreated(typeID uint32, bracket uint8) {
	metrics.instancesCreated.With(typeLabels(typeID, bracket)).Inc()
	metrics.liveInstances.With(typeLabels(typeID, bracket)).Inc()
}

func (metrics prometheusMetrics) InstanceReaped(typeID uint32, bracket uint8) {
	metrics.instancesReaped.With(typeLabels(typeID, bracket)).Inc()
	metrics.liveInstances.With(typeLabels(typeID, bracket)).Dec()
}

func (metrics prometheusMetrics) AddCreationFailure(queue string, reason string) {
	metrics.creationFailures.With(prometheus.Labels{"queue": queue, "reason": reason}).Inc()
}

func (metrics prometheusMetrics) AddScheduledQueueUpdates(count int) {
	metrics.scheduledQueueUpdates.Add(float64(count))
	metrics.schedulerPendingUpdate.Set(float64(count))
}

func (metrics prometheusMetrics) AddForcedRatedSweep() {
	metrics.forcedRatedSweeps.Inc()
}

func (metrics prometheusMetrics) AddElapsedTimeMs(function string, elapsedTime time.Duration) {
	metrics.functionElapsedTime.With(prometheus.Labels{"function": function}).Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) FreeSlotOpenInstances(mapID uint32, count int) {
	metrics.freeSlotOpenInstances.With(prometheus.Labels{"map": strconv.FormatUint(uint64(mapID), 10)}).Set(float64(count))
}
