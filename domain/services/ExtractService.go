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
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"malrelay/common"
	"malrelay/domain/ports/out"
	"malrelay/fileutils"
	"malrelay/logging"

	"github.com/pierrec/lz4/v4"
)

type ExtractService struct {
	logger logging.Logger
}

func NewExtractService(logger logging.Logger) ExtractService {
	return ExtractService{logger: logger}
}

// Extract unpacks every member of the archive at filename into the storage,
// next to the archive itself, and returns the paths of the created files.
// The archive is left in place; registration decisions belong to the caller.
func (e *ExtractService) Extract(storage out.LocalStorage, filename string, buffer []byte) ([]string, error) {
	file, err := storage.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file during extraction. %w", err)
	}
	defer file.Close()

	archiveType, err := fileutils.GetArchiveType(file)
	if err != nil {
		return nil, fmt.Errorf("failed to identify archive. %w", err)
	}

	switch archiveType {
	case fileutils.Zipfile:
		return extractZip(filename, storage, buffer)

	case fileutils.Tarfile:
		return extractTar(filename, storage, buffer)

	case fileutils.Gzfile:
		return extractGz(filename, storage, buffer)

	case fileutils.Lz4file:
		return extractLz4(filename, storage, buffer)

	default:
		return nil, fileutils.ErrUnknownArchiveType
	}
}

func extractZip(filename string, storage out.LocalStorage, buffer []byte) ([]string, error) {
	file, err := storage.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileSize, err := storage.Size(filename)
	if err != nil {
		return nil, err
	}

	reader, err := zip.NewReader(file, fileSize)
	if err != nil {
		return nil, err
	}

	dir := common.GeneratedExtractedFilename(filename, []string{"zip", "jar"})
	members := make([]string, 0, len(reader.File))

	for _, member := range reader.File {
		if member.FileInfo().IsDir() {
			continue
		}

		fullpath := fmt.Sprintf("%s/%s", dir, member.FileInfo().Name())
		if err := extractSingleZipFile(member, fullpath, storage, buffer); err != nil {
			return nil, err
		}

		members = append(members, fullpath)
	}

	return members, nil
}

func extractSingleZipFile(member *zip.File, fullpath string, storage out.LocalStorage, buffer []byte) error {
	zipReader, err := member.Open()
	if err != nil {
		return fmt.Errorf("failed to open file for extraction. %w", err)
	}
	defer zipReader.Close()

	return writeMember(zipReader, fullpath, storage, buffer)
}

func extractTar(filename string, storage out.LocalStorage, buffer []byte) ([]string, error) {
	file, err := storage.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	tarReader := tar.NewReader(file)
	dir := common.GeneratedExtractedFilename(filename, []string{"tar"})

	var members []string

	// TAR format is not good for random access.
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		fullpath := fmt.Sprintf("%s/%s", dir, header.Name)
		if err := writeMember(tarReader, fullpath, storage, buffer); err != nil {
			return nil, err
		}

		members = append(members, fullpath)
	}

	return members, nil
}

func extractGz(filename string, storage out.LocalStorage, buffer []byte) ([]string, error) {
	file, err := storage.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer gzReader.Close()

	fullpath := common.GeneratedExtractedFilename(filename, []string{"gz", "tgz"})
	if err := writeMember(gzReader, fullpath, storage, buffer); err != nil {
		return nil, err
	}

	return []string{fullpath}, nil
}

func extractLz4(filename string, storage out.LocalStorage, buffer []byte) ([]string, error) {
	// Lz4 by itself does not support multiple files.
	file, err := storage.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lzReader := lz4.NewReader(file)

	fullpath := common.GeneratedExtractedFilename(filename, []string{"lz4", "lz"})
	if err := writeMember(lzReader, fullpath, storage, buffer); err != nil {
		return nil, err
	}

	return []string{fullpath}, nil
}

func writeMember(reader io.Reader, fullpath string, storage out.LocalStorage, buffer []byte) error {
	outFile, err := storage.Create(fullpath)
	if err != nil {
		return fmt.Errorf("failed to create file for extraction. %w", err)
	}
	defer outFile.Close()

	// Decompressors cap each Read at their internal window, so copy in a loop
	// with our own buffer instead of one big read.
	for {
		read, err := reader.Read(buffer)
		eof := errors.Is(err, io.EOF)

		if !eof && err != nil {
			return fmt.Errorf("failed to read bytes during extraction. %w", err)
		}

		if _, err := outFile.Write(buffer[:read]); err != nil {
			return fmt.Errorf("failed to write bytes during extraction. %w", err)
		}

		if eof {
			break
		}
	}

	return nil
}
