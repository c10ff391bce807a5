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
	"archive/zip"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elfHeader() []byte {
	// Minimal ELF64 ident, enough for mime sniffing
	header := make([]byte, 64)
	copy(header, []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})
	return header
}

func zipArchive(t *testing.T) []byte {
	t.Helper()

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	file, err := writer.Create("member.txt")
	require.NoError(t, err)
	_, err = file.Write([]byte("zip member content"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected ContentType
	}{
		{name: "elf binary", content: elfHeader(), expected: Executable},
		{name: "mz executable", content: append([]byte("MZ"), make([]byte, 128)...), expected: Executable},
		{name: "pdf document", content: []byte("%PDF-1.7 sample"), expected: PDF},
		{name: "zip archive", content: zipArchive(t), expected: Zip},
		{name: "plain text", content: []byte("just some text"), expected: Unknown},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			detected, err := DetectContentType(bytes.NewReader(tc.content))
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, detected)
		})
	}
}

func TestGetArchiveType(t *testing.T) {
	var gzContent bytes.Buffer
	gzWriter := gzip.NewWriter(&gzContent)
	_, err := gzWriter.Write([]byte("compressed"))
	require.NoError(t, err)
	require.NoError(t, gzWriter.Close())

	tests := []struct {
		name     string
		content  []byte
		expected ArchiveType
	}{
		{name: "zip", content: zipArchive(t), expected: Zipfile},
		{name: "gzip", content: gzContent.Bytes(), expected: Gzfile},
		{name: "lz4", content: append([]byte{0x04, 0x22, 0x4D, 0x18}, make([]byte, 16)...), expected: Lz4file},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			archiveType, err := GetArchiveType(bytes.NewReader(tc.content))
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, archiveType)
		})
	}

	_, err = GetArchiveType(bytes.NewReader([]byte("not an archive at all")))
	assert.ErrorIs(t, err, ErrUnknownArchiveType)
}

func TestIsNativeExecutable(t *testing.T) {
	assert.True(t, IsNativeExecutable(bytes.NewReader(elfHeader())))
	assert.True(t, IsNativeExecutable(bytes.NewReader(append([]byte("MZ"), make([]byte, 64)...))))
	assert.False(t, IsNativeExecutable(bytes.NewReader([]byte("#!/bin/sh\necho hello"))))
}

func TestDetonatableExcludesArchives(t *testing.T) {
	detonatable := Detonatable()

	assert.Contains(t, detonatable, Executable)
	assert.Contains(t, detonatable, URL)
	assert.Contains(t, detonatable, Word)

	for _, archive := range []ContentType{Zip, Tar, Gzip, Lz4, Rar, SevenZip, ISO} {
		assert.NotContains(t, detonatable, archive)
	}
	assert.NotContains(t, detonatable, Unknown)
}

func TestIsCompressedBySuffix(t *testing.T) {
	assert.True(t, IsCompressed("sample.zip"))
	assert.True(t, IsCompressed("dump.tar.gz"))
	assert.False(t, IsCompressed("sample.exe"))
}
