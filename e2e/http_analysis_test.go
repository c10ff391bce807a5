//go:build e2e

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

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	adapterentities "malrelay/adapters/entities"
	"malrelay/app"
	"malrelay/common"
)

func (suite *E2E) TestHTTPAnalysis() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		app.Start(ctx)
	}()

	suite.Require().Eventually(func() bool {
		resp, err := http.Get("http://localhost:3000/healthcheck/readiness")
		if err != nil {
			return false
		}
		return resp.StatusCode == fiber.StatusOK
	}, time.Minute, 5*time.Second)

	// MZ header so the sample sniffs as an executable and reaches the
	// sandbox modules.
	body, contentType := common.PrepareRequestBody(suite.T(), "file", []byte{0x4D, 0x5A, 0x90, 0x00, 0x03, 0x00})

	request, _ := http.NewRequestWithContext(ctx, "POST", "http://localhost:3000/v1/files", body)
	request.Header.Add("Content-type", contentType)
	client := &http.Client{}

	httpResponse, err := client.Do(request)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, httpResponse.StatusCode)
	defer httpResponse.Body.Close()

	var scheduleResponse adapterentities.ScheduleResponse
	err = json.NewDecoder(httpResponse.Body).Decode(&scheduleResponse)
	suite.Assert().NoError(err)

	analysisID := scheduleResponse.ID
	suite.Require().NotEmpty(analysisID)

	// The fake sandbox reports immediately, so the triage verdict should
	// land in the record after one poll step.
	suite.Require().Eventually(func() bool {
		request, _ = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("http://localhost:3000/v1/analyses/%s", analysisID), http.NoBody)
		httpResponse, err := client.Do(request)
		if err != nil || httpResponse.StatusCode != http.StatusOK {
			return false
		}
		defer httpResponse.Body.Close()

		var obtained adapterentities.AnalysisResponse
		body, err := io.ReadAll(httpResponse.Body)
		if err != nil {
			return false
		}

		if err := json.Unmarshal(body, &obtained); err != nil {
			return false
		}

		triage, ok := obtained.Modules["triage"]
		if !ok {
			return false
		}

		return triage.Score == 10.0 && len(triage.ProbableNames) == 1 && triage.ProbableNames[0] == "emotet"
	}, 2*time.Minute, 5*time.Second)
}
