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
	"malrelay/fileutils"
	"malrelay/logging"
	"malrelay/mocks"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFlowsThroughAllJobs(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	request := &entities.AnalysisRequest{AnalysisID: "analysis-1", Bucket: "bucket", Key: "sample.bin"}

	mockDownloader := mocks.NewMockDownloader(mockCtrl)
	mockDownloader.EXPECT().DownloadSingleFile(request).Return(true).Times(1)

	output := make(chan *entities.AnalysisRequest, 1)
	writer := entities.NewOutputWriter(output)

	handler := NewPreprocessHandler([]Job{
		NewSizeFilter(100, logging.NewDiscardLog()),
		NewDownloader(mockDownloader),
	}, logging.NewDiscardLog())

	err := handler.Handle(context.Background(), request, writer)
	assert.NoError(t, err)

	require.Len(t, output, 1)
	assert.Equal(t, request, <-output)
}

func TestOversizedRequestIsAborted(t *testing.T) {
	request := &entities.AnalysisRequest{AnalysisID: "analysis-1", Size: 200}

	output := make(chan *entities.AnalysisRequest, 1)
	writer := entities.NewOutputWriter(output)

	handler := NewPreprocessHandler([]Job{NewSizeFilter(100, logging.NewDiscardLog())}, logging.NewDiscardLog())

	err := handler.Handle(context.Background(), request, writer)
	assert.Error(t, err)
	assert.Empty(t, output)
}

func TestZeroLimitDisablesSizeFilter(t *testing.T) {
	request := &entities.AnalysisRequest{AnalysisID: "analysis-1", Size: 200}

	filter := NewSizeFilter(0, logging.NewDiscardLog())
	assert.Equal(t, entities.NextJob, filter.Preprocess(context.Background(), request))
}

func TestFailedDownloadAbortsRequest(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	request := &entities.AnalysisRequest{AnalysisID: "analysis-1", Bucket: "bucket", Key: "sample.bin"}

	mockDownloader := mocks.NewMockDownloader(mockCtrl)
	mockDownloader.EXPECT().DownloadSingleFile(request).Return(false).Times(1)

	output := make(chan *entities.AnalysisRequest, 1)
	writer := entities.NewOutputWriter(output)

	handler := NewPreprocessHandler([]Job{NewDownloader(mockDownloader)}, logging.NewDiscardLog())

	err := handler.Handle(context.Background(), request, writer)
	assert.Error(t, err)
	assert.Empty(t, output)
}

func TestURLRequestSkipsDownload(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	request := &entities.AnalysisRequest{AnalysisID: "analysis-1", URL: "http://suspicious.example/sample"}

	// No download expectation: url submissions carry nothing to fetch.
	mockDownloader := mocks.NewMockDownloader(mockCtrl)

	downloader := NewDownloader(mockDownloader)
	assert.Equal(t, entities.NextJob, downloader.Preprocess(context.Background(), request))

	typeDetection := NewTypeDetection(nil, logging.NewDiscardLog())
	assert.Equal(t, entities.NextJob, typeDetection.Preprocess(context.Background(), request))
	assert.Equal(t, fileutils.URL, request.ContentType)
}
