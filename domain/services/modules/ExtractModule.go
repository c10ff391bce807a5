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

	"malrelay/domain/entities"
	"malrelay/domain/services"
	"malrelay/fileutils"
	"malrelay/logging"
)

const extractionFailedWarning = "Could not extract."

const extractBufferSize = 1024 * 1024

// ExtractOptions caps how much work one archive may fan out into.
type ExtractOptions struct {
	// MaximumExtractedFiles bounds the member registrations of one archive.
	// Above it the members are still listed in the extraction blob, but no
	// derived file is registered.
	MaximumExtractedFiles int
	// MaximumAutomaticAnalyses bounds how many members may re-enter the
	// pipeline as fresh analyses.
	MaximumAutomaticAnalyses int
}

// ExtractModule unpacks archive samples into the invocation's storage and
// feeds the members back as derived files. Extraction problems degrade to a
// warning, never to a failed invocation.
type ExtractModule struct {
	extractService services.ExtractService
	options        ExtractOptions
	logger         logging.Logger
}

func NewExtractModule(extractService services.ExtractService, options ExtractOptions, logger logging.Logger) *ExtractModule {
	return &ExtractModule{extractService: extractService, options: options, logger: logger}
}

func (e *ExtractModule) Name() string {
	return "extract"
}

func (e *ExtractModule) ActsOn() []fileutils.ContentType {
	return []fileutils.ContentType{fileutils.Zip, fileutils.Jar, fileutils.Tar, fileutils.Gzip, fileutils.Lz4}
}

func (e *ExtractModule) Process(_ context.Context, target *Target, findings *entities.Findings) error {
	members, err := e.extractService.Extract(target.Storage, target.Request.Key, make([]byte, extractBufferSize))
	if err != nil {
		e.logger.Debugw("Extraction failed", "error", err, "key", target.Request.Key)
		findings.AddWarning(extractionFailedWarning)

		return nil
	}

	memberNames := make(map[string]interface{}, len(members))
	for _, member := range members {
		memberNames[member] = nil
	}

	findings.AddExtraction("archive members", memberNames)

	if len(members) > e.options.MaximumExtractedFiles {
		e.logger.Debugw("Archive exceeds extraction limit, members listed but not registered",
			"members", len(members), "limit", e.options.MaximumExtractedFiles)
		return nil
	}

	automaticAnalysis := len(members) <= e.options.MaximumAutomaticAnalyses

	for _, member := range members {
		findings.AddExtractedFile(member, automaticAnalysis)
	}

	return nil
}
