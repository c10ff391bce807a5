/*
 *    Copyright 2024 Malrelay Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package modules

import (
	"context"

	"malrelay/domain/entities"
	ports "malrelay/domain/ports/out"
	"malrelay/fileutils"
)

// Target is one sample as seen by a processing module: the request that
// brought it in plus the scoped storage holding its bytes and receiving any
// derived artifacts.
type Target struct {
	Request *entities.AnalysisRequest
	Storage ports.LocalStorage
}

/*
ProcessingModule inspects one target and accumulates findings. Contract:
  - Process is synchronous and blocking; one invocation fully completes (or
    times out) before the worker moves on.
  - A module never deletes files it registered in the findings; the cleanup
    stage owns disposal after the results are persisted.
  - Returning an error marks the invocation as degraded, but whatever was
    already added to findings is kept and persisted.
*/
type ProcessingModule interface {
	Name() string
	// ActsOn lists the content types the module handles. Empty means all.
	ActsOn() []fileutils.ContentType
	Process(ctx context.Context, target *Target, findings *entities.Findings) error
}

func actsOnType(module ProcessingModule, contentType fileutils.ContentType) bool {
	accepted := module.ActsOn()
	if len(accepted) == 0 {
		return true
	}

	for _, candidate := range accepted {
		if candidate == contentType {
			return true
		}
	}

	return false
}
