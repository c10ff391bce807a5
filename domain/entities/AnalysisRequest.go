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

package entities

import "malrelay/fileutils"

// AnalysisStatus is the remote-analysis lifecycle as seen by the poller.
// Anything that is not Complete keeps the poll loop waiting; unknown
// vendor statuses are treated as still pending.
type AnalysisStatus string

const (
	StatusPending  AnalysisStatus = "pending"
	StatusComplete AnalysisStatus = "complete"
)

// AnalysisRequest travels through the pipeline stages. One request maps to
// exactly one submitted target (file, URL or bucket object) and owns one
// scoped local storage for its lifetime.
type AnalysisRequest struct {
	AnalysisID  string
	Key         string // path of the sample inside the local storage
	Bucket      string // set for bucket-object submissions
	URL         string // set for url submissions
	ContentType fileutils.ContentType
	Size        uint64
	StorageID   string
	StorageType string // currently only S3
	MessageID   string // SQS receipt handle, used to delete the message after processing
}

type Empty struct{}

// JobStatus is the verdict of one preparation job on a request.
type JobStatus int8

const (
	// NextJob hands the request to the next job of the same handler.
	NextJob JobStatus = iota
	// NextStage skips the remaining jobs and forwards the request.
	NextStage
	// Abort expels the request from the pipeline.
	Abort
)
