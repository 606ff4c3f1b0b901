// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-battleground-manager/pkg/models"
	"github.com/AccelByte/extend-battleground-manager/pkg/queue"
)

// loggingQueue stands in for the queue implementation until one is plugged in; it
// only traces what the manager asks of it.
type loggingQueue struct {
	id     models.QueueTypeID
	logger *logrus.Entry
}

func (q *loggingQueue) UpdateEvents(time.Duration) {}

func (q *loggingQueue) Update(elapsed time.Duration, bracket models.BracketID, rating uint32) {
	q.logger.Tracef("update bracket %d rating %d after %s", bracket, rating, elapsed)
}

func newLoggingQueueFactory(logger *logrus.Entry) queue.Factory {
	return queue.FactoryFunc(func(id models.QueueTypeID) queue.Queue {
		return &loggingQueue{id: id, logger: logger.WithField("queue", id.String())}
	})
}
