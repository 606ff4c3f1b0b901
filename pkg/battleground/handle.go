// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package battleground

import (
	"fmt"

	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

// Handle is a weak reference to an instance. The serial is unique per insertion, so a
// handle taken before a reap never resolves to a later instance reusing the same id.
type Handle struct {
	TypeID     models.TypeID
	InstanceID uint32
	Serial     uint64
}

func (h Handle) IsZero() bool {
	return h.Serial == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d/%d#%d", h.TypeID, h.InstanceID, h.Serial)
}

// Resolver turns handles back into live instances. It returns nil for stale handles.
type Resolver interface {
	Resolve(h Handle) *Instance
}
