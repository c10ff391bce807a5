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
	"malrelay/domain/services"
)

// Downloader fetches the remote object of a bucket submission into the
// request's scoped storage. Direct uploads and URL targets pass through.
type Downloader struct {
	downloadService services.Downloader
}

func NewDownloader(downloadService services.Downloader) *Downloader {
	return &Downloader{downloadService: downloadService}
}

func (d *Downloader) Preprocess(_ context.Context, request *entities.AnalysisRequest) entities.JobStatus {
	if request.Bucket == "" {
		return entities.NextJob
	}

	if d.downloadService.DownloadSingleFile(request) {
		return entities.NextJob
	}

	return entities.Abort
}

func (d *Downloader) Name() string {
	return reflect.TypeOf(d).Name()
}
