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

package in

import (
	"encoding/json"
	adapterentities "malrelay/adapters/entities"
	"malrelay/common"
	"malrelay/domain/entities"
	http2 "malrelay/http"
	"malrelay/logging"
	"malrelay/mocks"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func newAppForTest(controller AnalysisController) *fiber.App {
	handlers := []http2.Handler{
		{HTTPMethod: "POST", Path: "/files", HandlerFunc: controller.AnalyzeFile},
		{HTTPMethod: "POST", Path: "/urls", HandlerFunc: controller.AnalyzeURL},
		{HTTPMethod: "POST", Path: "/objects", HandlerFunc: controller.AnalyzeObject},
		{HTTPMethod: "GET", Path: "/analyses/:id", HandlerFunc: controller.GetAnalysis},
	}

	return common.CreateFiberAppForTest(handlers)
}

func TestValidFileForAnalysis(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockScheduler := mocks.NewMockScheduler(mockCtrl)
	mockScheduler.EXPECT().ScheduleFile("fakename", gomock.Any(), gomock.Any()).Return("analysisid", nil).Times(1)
	controller := NewAnalysisController(mockScheduler, nil, logging.NewDiscardLog())

	app := newAppForTest(controller)
	body, contentType := common.PrepareRequestBody(t, "file", []byte{0xca, 0xfe, 0xba, 0xbe})

	request := httptest.NewRequest("POST", "/v1/files", body)
	request.Header.Add("Content-type", contentType)

	httpResponse, err := app.Test(request, -1)
	if err != nil {
		t.Errorf("failed to send request. %v", err)
	}
	defer httpResponse.Body.Close()

	var scheduleResponse adapterentities.ScheduleResponse
	decoder := json.NewDecoder(httpResponse.Body)
	err = decoder.Decode(&scheduleResponse)
	assert.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, httpResponse.StatusCode)
	assert.Equal(t, "analysisid", scheduleResponse.ID)
	assert.Empty(t, scheduleResponse.Error)
}

func TestValidURLForAnalysis(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockScheduler := mocks.NewMockScheduler(mockCtrl)
	mockScheduler.EXPECT().ScheduleURL("http://suspicious.example/sample").Return("analysisid", nil).Times(1)
	controller := NewAnalysisController(mockScheduler, nil, logging.NewDiscardLog())

	app := newAppForTest(controller)

	body := `{"url":"http://suspicious.example/sample"}`
	request := httptest.NewRequest("POST", "/v1/urls", strings.NewReader(body))
	request.Header.Add("Content-type", "application/json")

	httpResponse, err := app.Test(request, -1)
	if err != nil {
		t.Errorf("failed to send request. %v", err)
	}
	defer httpResponse.Body.Close()

	var scheduleResponse adapterentities.ScheduleResponse
	decoder := json.NewDecoder(httpResponse.Body)
	err = decoder.Decode(&scheduleResponse)
	assert.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, httpResponse.StatusCode)
	assert.Equal(t, "analysisid", scheduleResponse.ID)
	assert.Empty(t, scheduleResponse.Error)
}

func TestValidObjectForAnalysis(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockScheduler := mocks.NewMockScheduler(mockCtrl)
	mockScheduler.EXPECT().ScheduleObject("sample-bucket", "sample-file").Return("analysisid", nil).Times(1)
	controller := NewAnalysisController(mockScheduler, nil, logging.NewDiscardLog())

	app := newAppForTest(controller)

	body := `{"region":"us-east-1","bucket":"sample-bucket","key":"sample-file"}`
	request := httptest.NewRequest("POST", "/v1/objects", strings.NewReader(body))
	request.Header.Add("Content-type", "application/json")

	httpResponse, err := app.Test(request, -1)
	if err != nil {
		t.Errorf("failed to send request. %v", err)
	}
	defer httpResponse.Body.Close()

	var scheduleResponse adapterentities.ScheduleResponse
	decoder := json.NewDecoder(httpResponse.Body)
	err = decoder.Decode(&scheduleResponse)
	assert.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, httpResponse.StatusCode)
	assert.Equal(t, "analysisid", scheduleResponse.ID)
	assert.Empty(t, scheduleResponse.Error)
}

func TestInvalidScheduleRequests(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockScheduler := mocks.NewMockScheduler(mockCtrl)
	controller := NewAnalysisController(mockScheduler, nil, logging.NewDiscardLog())

	app := newAppForTest(controller)

	tests := []struct {
		TestName string
		Path     string
		Body     string
	}{
		{TestName: "missing required object fields", Path: "/v1/objects", Body: `{"xxxx":"yyyy"}`},
		{TestName: "invalid object body type", Path: "/v1/objects", Body: "invalid json"},
		{TestName: "missing url field", Path: "/v1/urls", Body: `{"xxxx":"yyyy"}`},
		{TestName: "not a url", Path: "/v1/urls", Body: `{"url":"not a url"}`},
	}
	for _, test := range tests {
		test := test
		t.Run(test.TestName, func(t *testing.T) {
			request := httptest.NewRequest("POST", test.Path, strings.NewReader(test.Body))
			request.Header.Add("Content-type", "application/json")

			httpResponse, err := app.Test(request, -1)
			if err != nil {
				t.Errorf("failed to send request. %v", err)
			}
			defer httpResponse.Body.Close()

			var scheduleResponse adapterentities.ScheduleResponse
			decoder := json.NewDecoder(httpResponse.Body)
			err = decoder.Decode(&scheduleResponse)
			assert.NoError(t, err)

			assert.Equal(t, fiber.StatusBadRequest, httpResponse.StatusCode)
			assert.Empty(t, scheduleResponse.ID)
			assert.NotEmpty(t, scheduleResponse.Error)
		})
	}
}

func TestGetAnalysisReturnsStoredRecord(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	record := entities.NewAnalysisRecord("analysisid")
	findings := entities.NewFindings()
	findings.Score = 10
	findings.AddProbableName("emotet")
	record.Merge(entities.AnalysisResult{AnalysisID: "analysisid", Module: "triage", Findings: *findings, LastUpdate: time.Now()})

	mockRepo := mocks.NewMockFindingsRepository(mockCtrl)
	mockRepo.EXPECT().Get("analysisid").Return(record, nil).Times(1)

	mockScheduler := mocks.NewMockScheduler(mockCtrl)
	controller := NewAnalysisController(mockScheduler, mockRepo, logging.NewDiscardLog())

	app := newAppForTest(controller)

	request := httptest.NewRequest("GET", "/v1/analyses/analysisid", nil)

	httpResponse, err := app.Test(request, -1)
	if err != nil {
		t.Errorf("failed to send request. %v", err)
	}
	defer httpResponse.Body.Close()

	var analysisResponse adapterentities.AnalysisResponse
	decoder := json.NewDecoder(httpResponse.Body)
	err = decoder.Decode(&analysisResponse)
	assert.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, httpResponse.StatusCode)
	assert.Equal(t, "analysisid", analysisResponse.AnalysisID)
	assert.Contains(t, analysisResponse.Modules, "triage")
	assert.Equal(t, []string{"emotet"}, analysisResponse.Modules["triage"].ProbableNames)
	assert.Empty(t, analysisResponse.Error)
}
