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
	"encoding/json"
	"testing"
	"time"

	"malrelay/domain/entities"
	"malrelay/logging"
	"malrelay/mocks"

	"github.com/go-redis/redis/v9"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestSaveModuleResultOnEmptyRecord(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	findings := entities.NewFindings()
	findings.AddTag("stealer")

	result := entities.AnalysisResult{AnalysisID: "analysis-1", Module: "triage", Findings: *findings, LastUpdate: time.Now()}

	expected := entities.NewAnalysisRecord("analysis-1")
	expected.Merge(result)
	jsonRecord, _ := json.Marshal(expected)

	mockCache := mocks.NewMockCache(mockCtrl)
	mockCache.EXPECT().Lock(gomock.Any(), gomock.Any()).AnyTimes()
	mockCache.EXPECT().Unlock(gomock.Any()).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any()).Return("", redis.Nil).Times(1)
	mockCache.EXPECT().Set(gomock.Any(), string(jsonRecord), time.Hour).Times(1)

	repo := NewCacheFindingsRepo(mockCache, time.Hour, logging.NewDiscardLog())

	err := repo.SaveModuleResult(result)
	assert.NoError(t, err)
}

func TestSaveModuleResultKeepsOtherModules(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	stored := entities.NewAnalysisRecord("analysis-1")
	stored.Merge(entities.AnalysisResult{AnalysisID: "analysis-1", Module: "unpacme", Findings: entities.Findings{}})
	jsonStored, _ := json.Marshal(stored)

	findings := entities.NewFindings()
	findings.AddProbableName("emotet")
	result := entities.AnalysisResult{AnalysisID: "analysis-1", Module: "triage", Findings: *findings}

	mockCache := mocks.NewMockCache(mockCtrl)
	mockCache.EXPECT().Lock(gomock.Any(), gomock.Any()).AnyTimes()
	mockCache.EXPECT().Unlock(gomock.Any()).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any()).Return(string(jsonStored), nil).Times(1)
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ string, value any, _ time.Duration) error {
			var record entities.AnalysisRecord
			assert.NoError(t, json.Unmarshal([]byte(value.(string)), &record))
			assert.Contains(t, record.ModuleResults, "unpacme")
			assert.Contains(t, record.ModuleResults, "triage")
			assert.Equal(t, []string{"emotet"}, record.ModuleResults["triage"].ProbableNames)
			return nil
		}).Times(1)

	repo := NewCacheFindingsRepo(mockCache, time.Hour, logging.NewDiscardLog())

	err := repo.SaveModuleResult(result)
	assert.NoError(t, err)
}

func TestGetMissingRecord(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockCache := mocks.NewMockCache(mockCtrl)
	mockCache.EXPECT().Lock(gomock.Any(), gomock.Any()).AnyTimes()
	mockCache.EXPECT().Unlock(gomock.Any()).AnyTimes()
	mockCache.EXPECT().Get("analysis/unknown").Return("", redis.Nil).Times(1)

	repo := NewCacheFindingsRepo(mockCache, time.Hour, logging.NewDiscardLog())

	record, err := repo.Get("unknown")
	assert.NoError(t, err)
	assert.Equal(t, "unknown", record.AnalysisID)
	assert.Empty(t, record.ModuleResults)
}
