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
	"malrelay/domain/entities"
	"malrelay/domain/ports/out"
	"malrelay/logging"
)

// StoreService persists every module result so the API can serve the
// aggregated record while the remaining modules are still running.
type StoreService struct {
	repository out.FindingsRepository
	logger     logging.Logger
}

func NewStoreService(repository out.FindingsRepository, logger logging.Logger) *StoreService {
	return &StoreService{repository: repository, logger: logger}
}

func (s *StoreService) Update(result entities.AnalysisResult) {
	if err := s.repository.SaveModuleResult(result); err != nil {
		s.logger.Errorw("failed to store module result", "error", err, "analysis_id", result.AnalysisID, "module", result.Module)
	}
}

func (s *StoreService) UpdateGlobal() {}
