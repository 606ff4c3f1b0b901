// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import "sync/atomic"

// InstanceIDSequence hands out increasing instance ids starting at 1. Zero is never
// returned, it means "no instance".
type InstanceIDSequence struct {
	last atomic.Uint32
}

func (s *InstanceIDSequence) GenerateInstanceID() uint32 {
	for {
		id := s.last.Add(1)
		if id != 0 {
			return id
		}
	}
}
