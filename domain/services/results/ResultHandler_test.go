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

package results

import (
	"context"
	"malrelay/logging"
	"malrelay/mocks"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestStoreJobPersistsEveryResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	result := newResult("analysis-1", "triage", 10, "emotet")

	mockRepo := mocks.NewMockFindingsRepository(ctrl)
	mockRepo.EXPECT().SaveModuleResult(result).Return(nil).Times(1)

	handler := NewResultHandler([]Job{NewStoreService(mockRepo, logging.NewDiscardLog())}, logging.NewDiscardLog())
	err := handler.Handle(context.Background(), &result, nil)
	assert.NoError(t, err)
}

func TestStoreFailureDoesNotStopHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	result := newResult("analysis-1", "triage", 10, "emotet")

	mockRepo := mocks.NewMockFindingsRepository(ctrl)
	mockRepo.EXPECT().SaveModuleResult(result).Return(assert.AnError).Times(1)

	handler := NewResultHandler([]Job{NewStoreService(mockRepo, logging.NewDiscardLog())}, logging.NewDiscardLog())
	err := handler.Handle(context.Background(), &result, nil)
	assert.NoError(t, err)
}

func TestHandlerName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockFindingsRepository(ctrl)

	handler := NewResultHandler([]Job{NewStoreService(mockRepo, logging.NewDiscardLog())}, logging.NewDiscardLog())
	assert.Equal(t, "Result Handler with jobs: StoreService", handler.Name())
}
