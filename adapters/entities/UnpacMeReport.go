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

type UnpacMeSubmission struct {
	ID string `json:"id"`
}

type UnpacMeStatus struct {
	Status string `json:"status"`
}

type UnpacMeSearchResult struct {
	Results []UnpacMeSearchHit `json:"results"`
}

type UnpacMeSearchHit struct {
	SubmissionID string `json:"submission_id"`
}

// UnpacMeResults lists the payloads recovered from one submission, the
// parent sample included.
type UnpacMeResults struct {
	Results []UnpacMeUnpacked `json:"results"`
}

type UnpacMeUnpacked struct {
	Hashes    UnpacMeHashes      `json:"hashes"`
	MalwareID []UnpacMeDetection `json:"malware_id"`
	DetectIt  []UnpacMeDetection `json:"detectit"`
}

type UnpacMeHashes struct {
	Sha256 string `json:"sha256"`
}

type UnpacMeDetection struct {
	Name string `json:"name"`
}
