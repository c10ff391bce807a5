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
	"fmt"
	"reflect"
	"strings"

	"malrelay/domain/entities"
	"malrelay/logging"
)

type Handler struct {
	jobs   []Job
	logger logging.Logger
}

// Job prepares an analysis request before the processing modules see it.
type Job interface {
	Preprocess(ctx context.Context, request *entities.AnalysisRequest) entities.JobStatus
}

func NewPreprocessHandler(jobs []Job, logger logging.Logger) *Handler {
	return &Handler{jobs: jobs, logger: logger}
}

func (p *Handler) Handle(ctx context.Context, request *entities.AnalysisRequest, w *entities.OutputWriter[entities.AnalysisRequest]) error {
	status := entities.NextJob

	for _, job := range p.jobs {
		p.logger.Debugw("Running job", "job", reflect.ValueOf(job).Type())
		status = job.Preprocess(ctx, request)

		if status == entities.NextStage {
			w.Write(ctx, request)
			break
		}

		if status == entities.Abort {
			return fmt.Errorf("preprocess error")
		}
	}

	if status == entities.NextJob {
		w.Write(ctx, request)
	}

	return nil
}

func (p *Handler) Name() string {
	var jobs []string
	for _, job := range p.jobs {
		jobs = append(jobs, reflect.TypeOf(job).Elem().Name())
	}

	return "Preprocess Handler with jobs: " + strings.Join(jobs, ", ")
}
