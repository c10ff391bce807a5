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

// Signature describes one detection rule matched by a remote analysis.
// Fields absent from the remote report stay zero and are omitted from JSON.
type Signature struct {
	Name        string  `json:"name,omitempty"`
	Severity    float64 `json:"severity,omitempty"`
	Description string  `json:"description,omitempty"`
}

// IOC is an indicator of compromise: a value (IP, domain, URL, hash)
// annotated with descriptive tags.
type IOC struct {
	Value string   `json:"value"`
	Tags  []string `json:"tags,omitempty"`
}

// Extraction carries a configuration blob recovered from a sample, such as
// a decoded C2 configuration.
type Extraction struct {
	Label   string                 `json:"label"`
	Content map[string]interface{} `json:"content"`
}

// DerivedFile is an artifact produced by an analysis (dropped file, memory
// dump, pcap, unpacked payload) and kept in the invocation's scoped storage.
// Ownership of the path belongs to whoever holds the findings record.
type DerivedFile struct {
	Kind              string `json:"kind"`
	Path              string `json:"path"`
	AutomaticAnalysis bool   `json:"automatic_analysis"`
}

// Findings is the normalized output of one processing-module invocation.
// Modules fill it through the Add* methods, which keep tag, probable-name
// and IOC collections set-like.
type Findings struct {
	Score         float64       `json:"score"`
	ProbableNames []string      `json:"probable_names,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	Signatures    []Signature   `json:"signatures,omitempty"`
	IOCs          []IOC         `json:"iocs,omitempty"`
	Extractions   []Extraction  `json:"extractions,omitempty"`
	Files         []DerivedFile `json:"files,omitempty"`
	Warnings      []string      `json:"warnings,omitempty"`
	ReportURL     string        `json:"report_url,omitempty"`
}

func NewFindings() *Findings {
	return &Findings{}
}

func (f *Findings) AddTag(tag string) {
	if tag == "" || contains(f.Tags, tag) {
		return
	}

	f.Tags = append(f.Tags, tag)
}

func (f *Findings) AddProbableName(name string) {
	if name == "" || contains(f.ProbableNames, name) {
		return
	}

	f.ProbableNames = append(f.ProbableNames, name)
}

func (f *Findings) AddSignature(signature Signature) {
	f.Signatures = append(f.Signatures, signature)
}

// AddIOC records an indicator. Repeated values are collapsed into one entry
// with the union of their tags, preserving first-seen order.
func (f *Findings) AddIOC(value string, tags ...string) {
	if value == "" {
		return
	}

	for index := range f.IOCs {
		if f.IOCs[index].Value != value {
			continue
		}

		for _, tag := range tags {
			if !contains(f.IOCs[index].Tags, tag) {
				f.IOCs[index].Tags = append(f.IOCs[index].Tags, tag)
			}
		}

		return
	}

	f.IOCs = append(f.IOCs, IOC{Value: value, Tags: tags})
}

func (f *Findings) AddExtraction(label string, content map[string]interface{}) {
	f.Extractions = append(f.Extractions, Extraction{Label: label, Content: content})
}

// RegisterFile records a derived artifact of the given kind without marking
// it for further automatic analysis.
func (f *Findings) RegisterFile(kind, path string) {
	f.Files = append(f.Files, DerivedFile{Kind: kind, Path: path})
}

// AddExtractedFile records a file that should flow back into the pipeline.
// automaticAnalysis controls whether a new analysis is created for it.
func (f *Findings) AddExtractedFile(path string, automaticAnalysis bool) {
	f.Files = append(f.Files, DerivedFile{Kind: "extracted_file", Path: path, AutomaticAnalysis: automaticAnalysis})
}

func (f *Findings) AddWarning(warning string) {
	f.Warnings = append(f.Warnings, warning)
}

func contains(values []string, wanted string) bool {
	for _, value := range values {
		if value == wanted {
			return true
		}
	}

	return false
}
