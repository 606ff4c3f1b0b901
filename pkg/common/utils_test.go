// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUID(t *testing.T) {
	id := GenerateUUID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, GenerateUUID())
}

func TestGenerateTickID_Sortable(t *testing.T) {
	first := GenerateTickID()
	second := GenerateTickID()
	assert.Len(t, first, 26)
	assert.LessOrEqual(t, first[:10], second[:10])
}

func TestLogJSONFormatter(t *testing.T) {
	assert.Equal(t, `{"id":2}`, LogJSONFormatter(struct {
		ID int `json:"id"`
	}{ID: 2}))
	assert.Equal(t, "", LogJSONFormatter(make(chan int)))
}

func TestInstanceIDSequence(t *testing.T) {
	seq := &InstanceIDSequence{}
	assert.Equal(t, uint32(1), seq.GenerateInstanceID())
	assert.Equal(t, uint32(2), seq.GenerateInstanceID())

	// wrapping skips zero
	seq.last.Store(^uint32(0))
	assert.Equal(t, uint32(1), seq.GenerateInstanceID())
}

func TestInstanceIDSequence_Concurrent(t *testing.T) {
	seq := &InstanceIDSequence{}
	seen := sync.Map{}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, dup := seen.LoadOrStore(seq.GenerateInstanceID(), struct{}{})
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint32(800), seq.last.Load())
}
