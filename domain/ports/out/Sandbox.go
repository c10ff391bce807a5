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

package out

import (
	"context"
	"errors"

	"malrelay/domain/entities"
)

// ErrNoExistingAnalysis signals that a fingerprint search produced no match.
// Callers fall back to a fresh submission; this is never escalated.
var ErrNoExistingAnalysis = errors.New("no existing analysis for fingerprint")

/*
Sandbox is one remote malware-analysis service. Assumptions:
- (i) the remote service deduplicates by content fingerprint, so a search
  hit yields a task handle that can be polled and reported like a fresh one
- (ii) the task handle returned by Search or Submit* is the only key needed
  for every later call
- (iii) report shapes are vendor specific, so flattening into Findings lives
  behind Report rather than in the caller
*/
//go:generate go run -mod=mod github.com/golang/mock/mockgen -destination=../../../mocks/mock_sandbox.go -package=mocks -source=Sandbox.go
type Sandbox interface {
	Name() string
	// IsAvailable reports whether the service was configured with credentials.
	IsAvailable() bool
	Search(ctx context.Context, sha256 string) (string, error)
	SubmitFile(ctx context.Context, filename string, data []byte) (string, error)
	SubmitURL(ctx context.Context, target string) (string, error)
	Status(ctx context.Context, id string) (entities.AnalysisStatus, error)
	// Report fetches the full report for id and folds it into findings,
	// writing any collected artifacts into storage.
	Report(ctx context.Context, id string, findings *entities.Findings, storage LocalStorage) error
	// ReportURL returns the human-navigable web address of the analysis.
	ReportURL(id string) string
}
