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

import "errors"

var (
	// ErrInitialization marks a module that cannot run at all, typically a
	// missing credential. Raised at wiring time, not per invocation.
	ErrInitialization = errors.New("module is not properly initialized")

	// ErrSubmission marks a failed upload. No retry is attempted.
	ErrSubmission = errors.New("failed to submit sample")

	// ErrTimeout marks a poll loop that exceeded its wait budget. The remote
	// analysis may still finish later; its handle is not reusable here.
	ErrTimeout = errors.New("could not get report before timeout")

	// ErrExecution marks a failure after the analysis completed, while
	// fetching or flattening the report.
	ErrExecution = errors.New("error encountered while processing report")
)
