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
	"path/filepath"
	"time"

	"malrelay/domain/entities"
	ports "malrelay/domain/ports/out"
	"malrelay/fileutils"
	"malrelay/logging"

	"github.com/spf13/afero"
)

// SandboxOptions tunes the submit/poll protocol shared by every sandbox.
type SandboxOptions struct {
	WaitTimeout   time.Duration
	WaitStep      time.Duration
	CheckExisting bool
}

// SandboxModule drives one remote sandbox through the full analysis round:
// fingerprint, dedup search, submission, fixed-interval polling and report
// flattening. All vendor specifics live behind the Sandbox port.
type SandboxModule struct {
	sandbox ports.Sandbox
	actsOn  []fileutils.ContentType
	options SandboxOptions
	sleep   func(time.Duration)
	logger  logging.Logger
}

func NewSandboxModule(sandbox ports.Sandbox, actsOn []fileutils.ContentType, options SandboxOptions, logger logging.Logger) (*SandboxModule, error) {
	if !sandbox.IsAvailable() {
		return nil, fmt.Errorf("%w. missing credentials for %s", ErrInitialization, sandbox.Name())
	}

	return &SandboxModule{
		sandbox: sandbox,
		actsOn:  actsOn,
		options: options,
		sleep:   time.Sleep,
		logger:  logger,
	}, nil
}

func (s *SandboxModule) Name() string {
	return s.sandbox.Name()
}

func (s *SandboxModule) ActsOn() []fileutils.ContentType {
	return s.actsOn
}

func (s *SandboxModule) Process(ctx context.Context, target *Target, findings *entities.Findings) error {
	id, err := s.obtainTask(ctx, target)
	if err != nil {
		return fmt.Errorf("%w. %w", ErrSubmission, err)
	}

	// Attached before polling, so even a degraded run links to the analysis.
	findings.ReportURL = s.sandbox.ReportURL(id)

	if err := s.waitForAnalysis(ctx, id); err != nil {
		return err
	}

	if err := s.sandbox.Report(ctx, id, findings, target.Storage); err != nil {
		return fmt.Errorf("%w. %w", ErrExecution, err)
	}

	return nil
}

// obtainTask resolves the remote task handle: URL targets are always freshly
// submitted; files are first looked up by fingerprint when dedup is on, and
// any search failure silently falls back to submission.
func (s *SandboxModule) obtainTask(ctx context.Context, target *Target) (string, error) {
	if target.Request.URL != "" {
		return s.sandbox.SubmitURL(ctx, target.Request.URL)
	}

	data, err := afero.ReadFile(target.Storage, target.Request.Key)
	if err != nil {
		return "", fmt.Errorf("failed to read sample from local storage. %w", err)
	}

	if s.options.CheckExisting {
		fingerprint := fmt.Sprintf("%x", sha256.Sum256(data))

		id, err := s.sandbox.Search(ctx, fingerprint)
		if err == nil {
			s.logger.Debugw("Found existing report", "sandbox", s.sandbox.Name(), "id", id)
			return id, nil
		}

		s.logger.Debugw("No reports found. Submitting file", "sandbox", s.sandbox.Name(), "error", err)
	}

	return s.sandbox.SubmitFile(ctx, filepath.Base(target.Request.Key), data)
}

func (s *SandboxModule) waitForAnalysis(ctx context.Context, id string) error {
	for waited := time.Duration(0); waited < s.options.WaitTimeout; waited += s.options.WaitStep {
		status, err := s.sandbox.Status(ctx, id)
		if err != nil {
			return err
		}

		if status == entities.StatusComplete {
			return nil
		}

		s.sleep(s.options.WaitStep)
	}

	return ErrTimeout
}
