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

package preprocess

import (
	"context"
	"malrelay/domain/entities"
	"malrelay/logging"
)

// SizeFilter expels requests whose declared size exceeds the configured
// limit before any download happens. A zero limit disables the filter.
type SizeFilter struct {
	sizeLimit uint64
	logger    logging.Logger
}

func NewSizeFilter(sizeLimit uint64, logger logging.Logger) *SizeFilter {
	return &SizeFilter{sizeLimit: sizeLimit, logger: logger}
}

func (s *SizeFilter) Preprocess(ctx context.Context, request *entities.AnalysisRequest) entities.JobStatus {
	if s.sizeLimit != 0 && request.Size > s.sizeLimit {
		s.logger.Infow("Request above size limit", "analysis", request.AnalysisID, "size", request.Size, "limit", s.sizeLimit)
		return entities.Abort
	}

	return entities.NextJob
}
