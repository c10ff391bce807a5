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

// TriageSample is the answer to a sample submission or lookup.
type TriageSample struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// TriageSearchResult is the answer to a search query. Only the task id of
// each hit is consumed.
type TriageSearchResult struct {
	Data []TriageSample `json:"data"`
}

// TriageOverview is the aggregated report of one sample across all its tasks.
type TriageOverview struct {
	Analysis   TriageAnalysis    `json:"analysis"`
	Signatures []TriageSignature `json:"signatures"`
	Extracted  []TriageExtracted `json:"extracted"`
	Tasks      []TriageTask      `json:"tasks"`
}

type TriageAnalysis struct {
	Family []string `json:"family"`
	Score  float64  `json:"score"`
}

type TriageSignature struct {
	Name string  `json:"name"`
	// Score maps to signature severity.
	Score float64 `json:"score"`
	Desc  string  `json:"desc"`
}

// TriageExtracted carries configuration recovered from the sample. The three
// maps share one key space and are merged by the adapter.
type TriageExtracted struct {
	Config      map[string]interface{} `json:"config"`
	Credentials map[string]interface{} `json:"credentials"`
	Dropper     map[string]interface{} `json:"dropper"`
}

// C2 returns the command-and-control addresses of an extracted config, if
// the vendor filled them.
func (t TriageExtracted) C2() []string {
	raw, ok := t.Config["c2"]
	if !ok {
		return nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	addresses := make([]string, 0, len(items))
	for _, item := range items {
		if address, ok := item.(string); ok {
			addresses = append(addresses, address)
		}
	}

	return addresses
}

type TriageTask struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// TriageTaskReport is the per-task dynamic report, consumed only for
// behavioral tasks.
type TriageTaskReport struct {
	Network TriageNetwork  `json:"network"`
	Dumped  []TriageDumped `json:"dumped"`
}

type TriageNetwork struct {
	Flows    []TriageFlow    `json:"flows"`
	Requests []TriageRequest `json:"requests"`
}

type TriageFlow struct {
	Proto string `json:"proto"`
	// Dst is "ip:port".
	Dst string `json:"dst"`
}

type TriageRequest struct {
	DNSRequest  *TriageDNSRequest  `json:"dns_request"`
	HTTPRequest *TriageHTTPRequest `json:"http_request"`
}

type TriageDNSRequest struct {
	Domains []string `json:"domains"`
}

type TriageHTTPRequest struct {
	URL string `json:"url"`
}

// TriageDumped is an artifact captured during a task. Kind "martian" is a
// dropped file; "mapping" and "region" are memory dumps.
type TriageDumped struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}
