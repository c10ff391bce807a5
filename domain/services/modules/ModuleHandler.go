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
	"fmt"
	"strings"
	"time"

	"malrelay/domain/entities"
	ports "malrelay/domain/ports/out"
	"malrelay/logging"
)

// Handler runs every matching processing module over one analysis request.
// A module failure is logged and its partial findings kept; the request
// itself always reaches the result stage.
type Handler struct {
	modules             []ProcessingModule
	localStorageFactory ports.LocalStorageFactory
	logger              logging.Logger
}

func NewModuleHandler(modules []ProcessingModule, localStorageFactory ports.LocalStorageFactory, logger logging.Logger) *Handler {
	return &Handler{modules: modules, localStorageFactory: localStorageFactory, logger: logger}
}

func (m *Handler) Handle(ctx context.Context, request *entities.AnalysisRequest, w *entities.OutputWriter[entities.AnalysisResult]) error {
	storage, err := m.localStorageFactory.GetStorageFromID(request.StorageID)
	if err != nil {
		return fmt.Errorf("failed to open local storage. %w", err)
	}

	target := &Target{Request: request, Storage: storage}

	for _, module := range m.modules {
		if !actsOnType(module, request.ContentType) {
			continue
		}

		findings := entities.NewFindings()

		if err := module.Process(ctx, target, findings); err != nil {
			m.logger.Debugw("Module finished with error, keeping partial findings",
				"module", module.Name(), "analysis", request.AnalysisID, "error", err)
		}

		w.Write(ctx, &entities.AnalysisResult{
			AnalysisID: request.AnalysisID,
			Module:     module.Name(),
			Findings:   *findings,
			LastUpdate: time.Now(),
		})
	}

	// The request occupied this worker to the end; route it to cleanup.
	return fmt.Errorf("enforce cleanup")
}

func (m *Handler) Name() string {
	var names []string
	for _, module := range m.modules {
		names = append(names, module.Name())
	}

	return "Module Handler with modules: " + strings.Join(names, ", ")
}
