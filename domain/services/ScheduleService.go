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

package services

import (
	"fmt"
	"io"
	"malrelay/domain/entities"
	ports "malrelay/domain/ports/out"
	"malrelay/fileutils"
	"malrelay/logging"
	"path/filepath"

	"github.com/google/uuid"
)

//go:generate go run -mod=mod github.com/golang/mock/mockgen -destination=../../mocks/mock_scheduler.go -package=mocks -source=ScheduleService.go

// Scheduler creates analyses out of submitted targets and feeds them to the
// pipeline. Every analysis owns a scoped local storage, destroyed by the
// cleanup stage.
type Scheduler interface {
	ScheduleFile(filename string, file io.Reader, size uint64) (string, error)
	ScheduleURL(url string) (string, error)
	ScheduleObject(bucket, key string) (string, error)
}

type ScheduleService struct {
	outputChannel       chan *entities.AnalysisRequest
	localStorageFactory ports.LocalStorageFactory
	logger              logging.Logger
}

func NewScheduleService(localStorageFactory ports.LocalStorageFactory, outputChannel chan *entities.AnalysisRequest, logger logging.Logger) *ScheduleService {
	return &ScheduleService{outputChannel: outputChannel, localStorageFactory: localStorageFactory, logger: logger}
}

func (s *ScheduleService) ScheduleFile(filename string, file io.Reader, size uint64) (string, error) {
	analysisID := uuid.New().String()
	key := filepath.Base(filename)

	storage, err := s.localStorageFactory.GetLocalStorage(size, fileutils.IsCompressed(key))
	if err != nil {
		return "", fmt.Errorf("failed to create storage for analysis. %w", err)
	}

	localFile, err := storage.Create(key)
	if err != nil {
		return "", fmt.Errorf("failed to create local file. %w", err)
	}
	defer localFile.Close()

	if _, err := io.Copy(localFile, file); err != nil {
		return "", fmt.Errorf("failed to write submitted file. %w", err)
	}

	s.outputChannel <- &entities.AnalysisRequest{
		AnalysisID: analysisID,
		Key:        key,
		Size:       size,
		StorageID:  storage.GetID(),
	}

	return analysisID, nil
}

func (s *ScheduleService) ScheduleURL(url string) (string, error) {
	analysisID := uuid.New().String()

	// URL analyses carry no sample, but downstream stages still expect a
	// scoped storage for derived artifacts.
	storage, err := s.localStorageFactory.GetLocalStorage(0, false)
	if err != nil {
		return "", fmt.Errorf("failed to create storage for analysis. %w", err)
	}

	s.outputChannel <- &entities.AnalysisRequest{
		AnalysisID:  analysisID,
		URL:         url,
		ContentType: fileutils.URL,
		StorageID:   storage.GetID(),
	}

	return analysisID, nil
}

func (s *ScheduleService) ScheduleObject(bucket, key string) (string, error) {
	analysisID := uuid.New().String()

	storage, err := s.localStorageFactory.GetLocalStorage(0, fileutils.IsCompressed(key))
	if err != nil {
		return "", fmt.Errorf("failed to create storage for analysis. %w", err)
	}

	s.outputChannel <- &entities.AnalysisRequest{
		AnalysisID:  analysisID,
		Bucket:      bucket,
		Key:         key,
		StorageID:   storage.GetID(),
		StorageType: "s3",
	}

	return analysisID, nil
}
