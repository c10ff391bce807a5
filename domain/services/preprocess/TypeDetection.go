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
	"reflect"

	"malrelay/domain/entities"
	ports "malrelay/domain/ports/out"
	"malrelay/fileutils"
	"malrelay/logging"
)

// TypeDetection sniffs the content type of the downloaded sample when the
// submitter did not declare one. A declared type always wins: analysts may
// know more than the magic bytes do.
type TypeDetection struct {
	localStorageFactory ports.LocalStorageFactory
	logger              logging.Logger
}

func NewTypeDetection(localStorageFactory ports.LocalStorageFactory, logger logging.Logger) *TypeDetection {
	return &TypeDetection{localStorageFactory: localStorageFactory, logger: logger}
}

func (t *TypeDetection) Preprocess(_ context.Context, request *entities.AnalysisRequest) entities.JobStatus {
	if request.URL != "" {
		request.ContentType = fileutils.URL
		return entities.NextJob
	}

	if request.ContentType != "" && request.ContentType != fileutils.Unknown {
		return entities.NextJob
	}

	storage, err := t.localStorageFactory.GetStorageFromID(request.StorageID)
	if err != nil {
		t.logger.Errorw("Failed to get local storage", "error", err, "StorageID", request.StorageID)
		return entities.Abort
	}

	file, err := storage.Open(request.Key)
	if err != nil {
		t.logger.Errorw("Failed to open sample for type detection", "error", err, "key", request.Key)
		return entities.Abort
	}
	defer file.Close()

	contentType, err := fileutils.DetectContentType(file)
	if err != nil {
		t.logger.Errorw("Failed to sniff sample type", "error", err, "key", request.Key)
		return entities.Abort
	}

	request.ContentType = contentType

	return entities.NextJob
}

func (t *TypeDetection) Name() string {
	return reflect.TypeOf(t).Name()
}
