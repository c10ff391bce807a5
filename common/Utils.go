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

package common

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

func RandInt(max int64) int64 {
	bigNum, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		log.Printf("Failed to generate rand int\n")
	}

	return bigNum.Int64()
}

// MergeMappings folds src into dst, key by key. On collision the src value
// wins, so calling it repeatedly over an ordered list of mappings gives
// last-write-wins semantics. dst may be nil.
func MergeMappings(dst, src map[string]interface{}) map[string]interface{} {
	if dst == nil {
		dst = make(map[string]interface{}, len(src))
	}

	for key, value := range src {
		dst[key] = value
	}

	return dst
}

// JoinURL glues an endpoint and path fragments without doubling slashes.
// Config endpoints may or may not carry a trailing slash.
func JoinURL(endpoint string, parts ...string) string {
	url := strings.TrimSuffix(endpoint, "/")
	for _, part := range parts {
		url = fmt.Sprintf("%s/%s", url, strings.Trim(part, "/"))
	}

	return url
}

// DerivedFilename produces a unique storage path for an artifact downloaded
// from a remote analysis, keeping the artifact label visible in the name.
func DerivedFilename(label string) string {
	return fmt.Sprintf("derived/%s-%s", label, uuid.New())
}

// GeneratedExtractedFilename strips a well-known archive extension to name
// the extraction directory, or generates a random name when the file does
// not respect its extension.
func GeneratedExtractedFilename(filename string, extensions []string) string {
	for _, extension := range extensions {
		if strings.HasSuffix(filename, fmt.Sprintf(".%s", extension)) {
			return strings.TrimSuffix(filename, fmt.Sprintf(".%s", extension))
		}
	}

	return uuid.New().String()
}

func GetFirstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
