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
	"malrelay/domain/entities"
	"malrelay/logging"
	"reflect"
	"strings"
	"time"
)

type Job interface {
	Update(result entities.AnalysisResult)
	UpdateGlobal()
}

type Handler struct {
	jobs   []Job
	logger logging.Logger
}

func NewResultHandler(jobs []Job, logger logging.Logger) *Handler {
	return &Handler{jobs: jobs, logger: logger}
}

func (r *Handler) Handle(ctx context.Context, result *entities.AnalysisResult, _ *entities.OutputWriter[entities.Empty]) error {
	for _, job := range r.jobs {
		r.logger.Debugw("Running job", "job", reflect.ValueOf(job).Type())
		job.Update(*result)
	}

	return nil
}

// HandleAsync periodically flushes the jobs that batch their output, and
// flushes them one last time on termination.
func (r *Handler) HandleAsync(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.logger.Infow("Notifying external systems before termination")

				for _, job := range r.jobs {
					job.UpdateGlobal()
				}

				r.logger.Infow("Notifying external systems before termination completed")

				return
			case <-ticker.C:
				for _, job := range r.jobs {
					job.UpdateGlobal()
				}
			}
		}
	}()
}

func (r *Handler) Name() string {
	var jobs []string
	for _, job := range r.jobs {
		jobs = append(jobs, reflect.TypeOf(job).Elem().Name())
	}

	return "Result Handler with jobs: " + strings.Join(jobs, ", ")
}
