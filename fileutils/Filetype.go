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

package fileutils

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// ContentType is the declared-type vocabulary understood by processing
// modules. It mirrors the labels analysts use when submitting samples.
type ContentType string

const (
	Executable ContentType = "executable"
	URL        ContentType = "url"
	PDF        ContentType = "pdf"
	Word       ContentType = "word"
	Excel      ContentType = "excel"
	Powerpoint ContentType = "powerpoint"
	RTF        ContentType = "rtf"
	HTML       ContentType = "html"
	Javascript ContentType = "javascript"
	Jar        ContentType = "jar"
	Zip        ContentType = "zip"
	Tar        ContentType = "tar"
	Gzip       ContentType = "gz"
	Lz4        ContentType = "lz4"
	Rar        ContentType = "rar"
	SevenZip   ContentType = "7z"
	ISO        ContentType = "iso"
	Unknown    ContentType = "unknown"
)

// Detonatable lists the content types worth detonating in a full sandbox.
// Archives are handled by the extractor and never submitted whole.
func Detonatable() []ContentType {
	return []ContentType{Executable, Word, HTML, RTF, Excel, PDF, Javascript, Jar, URL, Powerpoint}
}

// ArchiveType identifies the container formats the extractor understands.
type ArchiveType int8

const (
	Zipfile ArchiveType = iota + 1
	Tarfile
	Gzfile
	Lz4file
)

const maxHeaderBuffer = 1024
const mimeApplicationType = "application"

var (
	ErrCantReadHeader     = errors.New("cant read file header")
	ErrUnknownArchiveType = errors.New("unknown archive type")
)

//nolint:gochecknoglobals
var once sync.Once

func prefix(preffix []byte) func([]byte, uint32) bool {
	return func(raw []byte, limit uint32) bool {
		if limit < uint32(len(preffix)) {
			return false
		}

		return bytes.Equal(raw[:len(preffix)], preffix)
	}
}

func registerAdditionalTypes() {
	// Support for LZ4
	mimetype.Extend(prefix([]byte{0x04, 0x22, 0x4D, 0x18}), "application/x-lz4", "")

	// Support for plain MZ executables that are not full PE images
	mimetype.Extend(prefix([]byte{0x4D, 0x5A}), "application/x-dosexec", "")
}

func readHeader(reader io.Reader) ([]string, error) {
	once.Do(registerAdditionalTypes)

	head := make([]byte, maxHeaderBuffer)
	_, err := reader.Read(head)

	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrCantReadHeader
	}

	mtype := mimetype.Detect(head)

	return strings.Split(mtype.String(), "/"), nil
}

// DetectContentType maps the sniffed mime type of a sample to the declared
// type vocabulary. Samples that do not fit any label come back as Unknown.
//
//nolint:cyclop
func DetectContentType(reader io.Reader) (ContentType, error) {
	identifiedType, err := readHeader(reader)
	if err != nil {
		return Unknown, err
	}

	if identifiedType[0] != mimeApplicationType && identifiedType[0] != "text" {
		return Unknown, nil
	}

	switch identifiedType[1] {
	case "x-elf", "x-executable", "x-sharedlib", "x-mach-binary", "vnd.microsoft.portable-executable", "x-dosexec":
		return Executable, nil
	case "pdf":
		return PDF, nil
	case "msword", "vnd.openxmlformats-officedocument.wordprocessingml.document":
		return Word, nil
	case "vnd.ms-excel", "vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return Excel, nil
	case "vnd.ms-powerpoint", "vnd.openxmlformats-officedocument.presentationml.presentation":
		return Powerpoint, nil
	case "rtf":
		return RTF, nil
	case "html":
		return HTML, nil
	case "javascript":
		return Javascript, nil
	case "jar", "java-archive":
		return Jar, nil
	case "zip":
		return Zip, nil
	case "x-tar":
		return Tar, nil
	case "gzip":
		return Gzip, nil
	case "x-lz4":
		return Lz4, nil
	case "x-rar-compressed", "x-rar":
		return Rar, nil
	case "x-7z-compressed":
		return SevenZip, nil
	case "x-iso9660-image":
		return ISO, nil
	default:
		return Unknown, nil
	}
}

// GetArchiveType identifies containers the extraction service can unpack.
func GetArchiveType(reader io.Reader) (ArchiveType, error) {
	identifiedType, err := readHeader(reader)
	if err != nil {
		return 0, err
	}

	switch {
	case isZip(identifiedType):
		return Zipfile, nil
	case isTar(identifiedType):
		return Tarfile, nil
	case isGzip(identifiedType):
		return Gzfile, nil
	case isLZ4(identifiedType):
		return Lz4file, nil
	default:
		return 0, ErrUnknownArchiveType
	}
}

func IsCompressed(filename string) bool {
	suffixes := []string{".tar", ".tar.gz", ".gz", ".zip", ".lz4", ".lz", ".tgz", ".rar", ".7z", ".iso"}
	for _, suffix := range suffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}

	return false
}

// IsNativeExecutable reports whether the content looks like a native binary
// (PE, ELF or Mach-O). Dropped files that pass this check are worth feeding
// back for further automatic analysis.
func IsNativeExecutable(reader io.Reader) bool {
	identifiedType, err := readHeader(reader)
	if err != nil {
		return false
	}

	return identifiedType[0] == mimeApplicationType &&
		(identifiedType[1] == "x-elf" ||
			identifiedType[1] == "vnd.microsoft.portable-executable" ||
			identifiedType[1] == "x-executable" ||
			identifiedType[1] == "x-sharedlib" ||
			identifiedType[1] == "x-mach-binary" ||
			identifiedType[1] == "x-dosexec")
}

func isLZ4(identifiedType []string) bool {
	return identifiedType[0] == mimeApplicationType && identifiedType[1] == "x-lz4"
}

func isGzip(identifiedType []string) bool {
	return identifiedType[0] == mimeApplicationType && identifiedType[1] == "gzip"
}

func isTar(identifiedType []string) bool {
	return identifiedType[0] == mimeApplicationType && identifiedType[1] == "x-tar"
}

func isZip(identifiedType []string) bool {
	return identifiedType[0] == mimeApplicationType && identifiedType[1] == "zip"
}
