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

package entities

import "time"

// AnalysisResult is the outcome of running one processing module against
// one submitted target.
type AnalysisResult struct {
	AnalysisID string    `json:"analysis_id"`
	Module     string    `json:"module"`
	Findings   Findings  `json:"findings"`
	LastUpdate time.Time `json:"last_update"`
}

// AnalysisRecord aggregates the module results of one analysis, keyed by
// module name. This is what the repository persists and the API serves.
type AnalysisRecord struct {
	AnalysisID    string              `json:"analysis_id"`
	ModuleResults map[string]Findings `json:"module_results"`
	LastUpdate    time.Time           `json:"last_update"`
}

func NewAnalysisRecord(analysisID string) AnalysisRecord {
	return AnalysisRecord{
		AnalysisID:    analysisID,
		ModuleResults: make(map[string]Findings),
	}
}

// Merge folds a module result into the record. A rerun of the same module
// replaces its previous findings.
func (r *AnalysisRecord) Merge(result AnalysisResult) {
	if r.ModuleResults == nil {
		r.ModuleResults = make(map[string]Findings)
	}

	r.ModuleResults[result.Module] = result.Findings

	if result.LastUpdate.After(r.LastUpdate) {
		r.LastUpdate = result.LastUpdate
	}
}
