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
	"fmt"
	"malrelay/domain/entities"
	"malrelay/domain/ports/out"
	"malrelay/logging"
	"strings"
	"sync"
)

// EmergencyService batches analyses whose score reached the configured
// threshold and notifies the viewers on the next flush.
type EmergencyService struct {
	mu             sync.Mutex
	alerts         map[string]alert
	scoreThreshold float64
	viewers        []out.Viewer
	logger         logging.Logger
}

type alert struct {
	score float64
	names []string
}

func NewEmergencyService(scoreThreshold float64, viewers []out.Viewer, logger logging.Logger) *EmergencyService {
	return &EmergencyService{alerts: make(map[string]alert), scoreThreshold: scoreThreshold, viewers: viewers, logger: logger}
}

func (e *EmergencyService) Update(result entities.AnalysisResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if result.Findings.Score < e.scoreThreshold {
		return
	}

	// Keep the worst module verdict per analysis.
	current, ok := e.alerts[result.AnalysisID]
	if !ok || result.Findings.Score > current.score {
		e.alerts[result.AnalysisID] = alert{score: result.Findings.Score, names: result.Findings.ProbableNames}
	}
}

func (e *EmergencyService) UpdateGlobal() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.alerts) == 0 {
		return
	}

	message := "Malicious samples detected, please check the analysis reports:\n"
	for analysisID, alert := range e.alerts {
		names := "unknown"
		if len(alert.names) != 0 {
			names = strings.Join(alert.names, ", ")
		}

		message += fmt.Sprintf("%s -> score %.1f (%s)\n", analysisID, alert.score, names)
	}

	for _, viewer := range e.viewers {
		if err := viewer.SendMessage(message); err != nil {
			e.logger.Errorw("failed to send emergency notification", "error", err)
		}
	}

	e.alerts = make(map[string]alert)
}
