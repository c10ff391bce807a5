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
	"crypto/sha256"
	"fmt"
	"testing"
	"time"

	adapters "malrelay/adapters/out"
	"malrelay/domain/entities"
	"malrelay/fileutils"
	"malrelay/logging"
	"malrelay/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func newTargetForTest(t *testing.T, content []byte) *Target {
	t.Helper()

	factory := adapters.NewLocalStorageFactory(1024 * 1024 * 1024)

	storage, err := factory.GetLocalStorage(0, false)
	assert.NoError(t, err)

	file, err := storage.Create("sample.bin")
	assert.NoError(t, err)
	defer file.Close()

	_, err = file.Write(content)
	assert.NoError(t, err)

	return &Target{
		Request: &entities.AnalysisRequest{AnalysisID: "analysis-1", Key: "sample.bin", StorageID: storage.GetID()},
		Storage: storage,
	}
}

func newAvailableSandbox(t *testing.T) *mocks.MockSandbox {
	t.Helper()

	mockCtrl := gomock.NewController(t)
	mockSandbox := mocks.NewMockSandbox(mockCtrl)
	mockSandbox.EXPECT().IsAvailable().Return(true)
	mockSandbox.EXPECT().Name().Return("sandbox").AnyTimes()

	return mockSandbox
}

func TestSearchHitSkipsSubmission(t *testing.T) {
	content := []byte("sample content for fingerprinting")
	fingerprint := fmt.Sprintf("%x", sha256.Sum256(content))

	mockSandbox := newAvailableSandbox(t)
	mockSandbox.EXPECT().Search(gomock.Any(), fingerprint).Return("task-1", nil).Times(1)
	mockSandbox.EXPECT().ReportURL("task-1").Return("https://sandbox.example/task-1")
	mockSandbox.EXPECT().Status(gomock.Any(), "task-1").Return(entities.StatusComplete, nil)
	mockSandbox.EXPECT().Report(gomock.Any(), "task-1", gomock.Any(), gomock.Any()).Return(nil)

	options := SandboxOptions{WaitTimeout: 90 * time.Second, WaitStep: 30 * time.Second, CheckExisting: true}
	module, err := NewSandboxModule(mockSandbox, nil, options, logging.NewDiscardLog())
	assert.NoError(t, err)

	findings := entities.NewFindings()
	err = module.Process(context.Background(), newTargetForTest(t, content), findings)

	assert.NoError(t, err)
	assert.Equal(t, "https://sandbox.example/task-1", findings.ReportURL)
}

func TestSearchFailureFallsThroughToSubmission(t *testing.T) {
	content := []byte("never seen before")

	mockSandbox := newAvailableSandbox(t)
	mockSandbox.EXPECT().Search(gomock.Any(), gomock.Any()).Return("", fmt.Errorf("search exploded")).Times(1)
	mockSandbox.EXPECT().SubmitFile(gomock.Any(), "sample.bin", content).Return("task-2", nil).Times(1)
	mockSandbox.EXPECT().ReportURL("task-2").Return("https://sandbox.example/task-2")
	mockSandbox.EXPECT().Status(gomock.Any(), "task-2").Return(entities.StatusComplete, nil)
	mockSandbox.EXPECT().Report(gomock.Any(), "task-2", gomock.Any(), gomock.Any()).Return(nil)

	options := SandboxOptions{WaitTimeout: 90 * time.Second, WaitStep: 30 * time.Second, CheckExisting: true}
	module, err := NewSandboxModule(mockSandbox, nil, options, logging.NewDiscardLog())
	assert.NoError(t, err)

	err = module.Process(context.Background(), newTargetForTest(t, content), entities.NewFindings())
	assert.NoError(t, err)
}

func TestDedupDisabledSubmitsDirectly(t *testing.T) {
	content := []byte("some sample")

	mockSandbox := newAvailableSandbox(t)
	mockSandbox.EXPECT().SubmitFile(gomock.Any(), "sample.bin", content).Return("task-3", nil).Times(1)
	mockSandbox.EXPECT().ReportURL("task-3").Return("https://sandbox.example/task-3")
	mockSandbox.EXPECT().Status(gomock.Any(), "task-3").Return(entities.StatusComplete, nil)
	mockSandbox.EXPECT().Report(gomock.Any(), "task-3", gomock.Any(), gomock.Any()).Return(nil)

	options := SandboxOptions{WaitTimeout: 90 * time.Second, WaitStep: 30 * time.Second, CheckExisting: false}
	module, err := NewSandboxModule(mockSandbox, nil, options, logging.NewDiscardLog())
	assert.NoError(t, err)

	err = module.Process(context.Background(), newTargetForTest(t, content), entities.NewFindings())
	assert.NoError(t, err)
}

func TestPollingStopsAtTimeout(t *testing.T) {
	mockSandbox := newAvailableSandbox(t)
	mockSandbox.EXPECT().SubmitFile(gomock.Any(), gomock.Any(), gomock.Any()).Return("task-4", nil)
	mockSandbox.EXPECT().ReportURL("task-4").Return("https://sandbox.example/task-4")
	// ceil(100/30) status checks before the budget runs out
	mockSandbox.EXPECT().Status(gomock.Any(), "task-4").Return(entities.StatusPending, nil).Times(4)

	sleeps := 0

	options := SandboxOptions{WaitTimeout: 100 * time.Second, WaitStep: 30 * time.Second, CheckExisting: false}
	module, err := NewSandboxModule(mockSandbox, nil, options, logging.NewDiscardLog())
	assert.NoError(t, err)
	module.sleep = func(time.Duration) { sleeps++ }

	findings := entities.NewFindings()
	err = module.Process(context.Background(), newTargetForTest(t, []byte("slow sample")), findings)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 4, sleeps)

	// No report-derived findings, only the analysis link.
	assert.Equal(t, "https://sandbox.example/task-4", findings.ReportURL)
	assert.Empty(t, findings.Signatures)
	assert.Empty(t, findings.IOCs)
	assert.Empty(t, findings.Tags)
	assert.Empty(t, findings.Files)
}

func TestURLTargetAlwaysSubmitted(t *testing.T) {
	mockSandbox := newAvailableSandbox(t)
	mockSandbox.EXPECT().SubmitURL(gomock.Any(), "http://evil.example/payload").Return("task-5", nil).Times(1)
	mockSandbox.EXPECT().ReportURL("task-5").Return("https://sandbox.example/task-5")
	mockSandbox.EXPECT().Status(gomock.Any(), "task-5").Return(entities.StatusComplete, nil)
	mockSandbox.EXPECT().Report(gomock.Any(), "task-5", gomock.Any(), gomock.Any()).Return(nil)

	options := SandboxOptions{WaitTimeout: 90 * time.Second, WaitStep: 30 * time.Second, CheckExisting: true}
	module, err := NewSandboxModule(mockSandbox, nil, options, logging.NewDiscardLog())
	assert.NoError(t, err)

	target := &Target{Request: &entities.AnalysisRequest{AnalysisID: "analysis-1", URL: "http://evil.example/payload", ContentType: fileutils.URL}}

	err = module.Process(context.Background(), target, entities.NewFindings())
	assert.NoError(t, err)
}

func TestSubmissionFailureIsWrapped(t *testing.T) {
	mockSandbox := newAvailableSandbox(t)
	mockSandbox.EXPECT().SubmitFile(gomock.Any(), gomock.Any(), gomock.Any()).Return("", fmt.Errorf("upload rejected"))

	options := SandboxOptions{WaitTimeout: 90 * time.Second, WaitStep: 30 * time.Second, CheckExisting: false}
	module, err := NewSandboxModule(mockSandbox, nil, options, logging.NewDiscardLog())
	assert.NoError(t, err)

	err = module.Process(context.Background(), newTargetForTest(t, []byte("sample")), entities.NewFindings())
	assert.ErrorIs(t, err, ErrSubmission)
}

func TestMissingCredentialsFailInitialization(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	mockSandbox := mocks.NewMockSandbox(mockCtrl)
	mockSandbox.EXPECT().IsAvailable().Return(false)
	mockSandbox.EXPECT().Name().Return("sandbox").AnyTimes()

	_, err := NewSandboxModule(mockSandbox, nil, SandboxOptions{}, logging.NewDiscardLog())
	assert.ErrorIs(t, err, ErrInitialization)
}
