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

import (
	"malrelay/domain/entities"
	"time"
)

// ScheduleResponse acknowledges a submission. The returned ID is used to
// fetch the analysis record later.
type ScheduleResponse struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type AnalysisResponse struct {
	AnalysisID string                       `json:"analysis_id,omitempty"`
	Modules    map[string]entities.Findings `json:"modules,omitempty"`
	LastUpdate time.Time                    `json:"last_update,omitempty"`
	Error      string                       `json:"error,omitempty"`
}

func MapRecordToAnalysisResponse(record entities.AnalysisRecord) AnalysisResponse {
	return AnalysisResponse{
		AnalysisID: record.AnalysisID,
		Modules:    record.ModuleResults,
		LastUpdate: record.LastUpdate,
	}
}

type RequestObjectAnalysis struct {
	Bucket string `json:"bucket" validate:"required"`
	Key    string `json:"key" validate:"required"`
}

type RequestURLAnalysis struct {
	URL string `json:"url" validate:"required,url"`
}
