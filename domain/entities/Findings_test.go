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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddIOCKeepsSetSemantics(t *testing.T) {
	findings := NewFindings()
	findings.AddIOC("1.2.3.4", "port:443", "tcp")
	findings.AddIOC("1.2.3.4", "tcp", "c2")
	findings.AddIOC("evil.example", "dns_request")

	assert.Len(t, findings.IOCs, 2)
	assert.Equal(t, "1.2.3.4", findings.IOCs[0].Value)
	assert.Equal(t, []string{"port:443", "tcp", "c2"}, findings.IOCs[0].Tags)
	assert.Equal(t, "evil.example", findings.IOCs[1].Value)
}

func TestAddTagAndProbableNameDeduplicate(t *testing.T) {
	findings := NewFindings()
	findings.AddTag("emotet")
	findings.AddTag("emotet")
	findings.AddTag("")
	findings.AddProbableName("emotet,trickbot")
	findings.AddProbableName("emotet,trickbot")

	assert.Equal(t, []string{"emotet"}, findings.Tags)
	assert.Equal(t, []string{"emotet,trickbot"}, findings.ProbableNames)
}

func TestAnalysisRecordMergeReplacesModuleRun(t *testing.T) {
	record := NewAnalysisRecord("analysis-1")

	first := AnalysisResult{AnalysisID: "analysis-1", Module: "hatching_triage", Findings: Findings{Score: 3}}
	second := AnalysisResult{AnalysisID: "analysis-1", Module: "hatching_triage", Findings: Findings{Score: 8}}
	record.Merge(first)
	record.Merge(second)

	assert.Len(t, record.ModuleResults, 1)
	assert.Equal(t, 8.0, record.ModuleResults["hatching_triage"].Score)
}
