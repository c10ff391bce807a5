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

package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	adapterentities "malrelay/adapters/entities"
	"malrelay/common"
	"malrelay/domain/entities"
	"malrelay/domain/ports/out"
	"malrelay/fileutils"
)

const (
	triageStatusReported = "reported"
	behavioralTaskPrefix = "behavioral"
	pcapName             = "dump.pcap"
)

// TriageOptions configures the Hatching Triage adapter. Collect flags gate
// artifact downloads, which can be large.
type TriageOptions struct {
	APIEndpoint      string
	WebEndpoint      string
	APIKey           string
	CollectDropfiles bool
	CollectMemdumps  bool
	CollectPcaps     bool
}

type TriageSandbox struct {
	options     TriageOptions
	rateLimiter common.RateLimiter
}

func NewTriageSandbox(options TriageOptions, rateLimiter common.RateLimiter) *TriageSandbox {
	return &TriageSandbox{options: options, rateLimiter: rateLimiter}
}

func (t *TriageSandbox) Name() string {
	return "triage"
}

func (t *TriageSandbox) IsAvailable() bool {
	return t.options.APIKey != ""
}

func (t *TriageSandbox) Search(ctx context.Context, sha256 string) (string, error) {
	query := url.Values{}
	query.Set("query", fmt.Sprintf("sha256:%s", sha256))
	query.Set("limit", "1")

	var result adapterentities.TriageSearchResult
	searchURL := fmt.Sprintf("%s?%s", common.JoinURL(t.options.APIEndpoint, "search"), query.Encode())

	if err := t.getJSON(ctx, searchURL, &result); err != nil {
		return "", err
	}

	if len(result.Data) == 0 {
		return "", out.ErrNoExistingAnalysis
	}

	return result.Data[0].ID, nil
}

func (t *TriageSandbox) SubmitFile(ctx context.Context, filename string, data []byte) (string, error) {
	if !t.rateLimiter.IsRequestAllowed() {
		return "", fmt.Errorf("too many requests for triage")
	}

	bodyRequest := new(bytes.Buffer)
	writer := multipart.NewWriter(bodyRequest)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to encode body request for triage. %w", err)
	}

	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to prepare body request for triage. %w", err)
	}

	profile, _ := json.Marshal(map[string]any{"kind": "file", "interactive": false})
	if err := writer.WriteField("_json", string(profile)); err != nil {
		return "", fmt.Errorf("failed to prepare body request for triage. %w", err)
	}

	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, common.JoinURL(t.options.APIEndpoint, "samples"), bodyRequest)
	if err != nil {
		return "", fmt.Errorf("failed to encode request for triage. %w", err)
	}

	req.Header.Add("Content-Type", writer.FormDataContentType())

	var sample adapterentities.TriageSample
	if err := t.doJSON(req, &sample); err != nil {
		return "", err
	}

	return sample.ID, nil
}

func (t *TriageSandbox) SubmitURL(ctx context.Context, target string) (string, error) {
	if !t.rateLimiter.IsRequestAllowed() {
		return "", fmt.Errorf("too many requests for triage")
	}

	body, _ := json.Marshal(map[string]any{"kind": "url", "url": target, "interactive": false})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, common.JoinURL(t.options.APIEndpoint, "samples"), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to encode request for triage. %w", err)
	}

	req.Header.Add("Content-Type", "application/json")

	var sample adapterentities.TriageSample
	if err := t.doJSON(req, &sample); err != nil {
		return "", err
	}

	return sample.ID, nil
}

func (t *TriageSandbox) Status(ctx context.Context, id string) (entities.AnalysisStatus, error) {
	var sample adapterentities.TriageSample
	if err := t.getJSON(ctx, common.JoinURL(t.options.APIEndpoint, "samples", id), &sample); err != nil {
		return entities.StatusPending, err
	}

	if sample.Status == triageStatusReported {
		return entities.StatusComplete, nil
	}

	return entities.StatusPending, nil
}

func (t *TriageSandbox) Report(ctx context.Context, id string, findings *entities.Findings, storage out.LocalStorage) error {
	var overview adapterentities.TriageOverview
	if err := t.getJSON(ctx, common.JoinURL(t.options.APIEndpoint, "samples", id, "overview.json"), &overview); err != nil {
		return err
	}

	familyName := strings.ToLower(strings.Join(overview.Analysis.Family, ","))
	if familyName != "" {
		findings.AddProbableName(familyName)
		findings.AddTag(familyName)
	}

	findings.Score = overview.Analysis.Score

	for _, signature := range overview.Signatures {
		findings.AddSignature(entities.Signature{Name: signature.Name, Severity: signature.Score, Description: signature.Desc})
	}

	t.extractConfiguration(overview, familyName, findings)

	for _, task := range overview.Tasks {
		if task.Status != triageStatusReported || !strings.HasPrefix(task.Name, behavioralTaskPrefix) {
			continue
		}

		if err := t.processBehavioralTask(ctx, id, task.Name, findings, storage); err != nil {
			return err
		}
	}

	return nil
}

func (t *TriageSandbox) ReportURL(id string) string {
	return common.JoinURL(t.options.WebEndpoint, id)
}

// extractConfiguration folds every extracted config, credentials and dropper
// map into a single blob, in report order with later entries winning, and
// promotes c2 addresses to tagged IOCs.
func (t *TriageSandbox) extractConfiguration(overview adapterentities.TriageOverview, familyName string, findings *entities.Findings) {
	if len(overview.Extracted) == 0 {
		return
	}

	configuration := make(map[string]interface{})

	for _, item := range overview.Extracted {
		configuration = common.MergeMappings(configuration, item.Config)
		configuration = common.MergeMappings(configuration, item.Credentials)
		configuration = common.MergeMappings(configuration, item.Dropper)

		for _, c2 := range item.C2() {
			tags := []string{"c2"}
			for _, threatName := range strings.Split(familyName, ",") {
				tags = append(tags, threatName)
			}

			findings.AddIOC(c2, tags...)
		}
	}

	findings.AddExtraction(fmt.Sprintf("%s configuration", familyName), configuration)
}

func (t *TriageSandbox) processBehavioralTask(ctx context.Context, id, taskName string, findings *entities.Findings, storage out.LocalStorage) error {
	var report adapterentities.TriageTaskReport
	if err := t.getJSON(ctx, common.JoinURL(t.options.APIEndpoint, "samples", id, taskName, "report_triage.json"), &report); err != nil {
		return err
	}

	for _, flow := range report.Network.Flows {
		if flow.Proto != "tcp" {
			continue
		}

		ip, port, found := strings.Cut(flow.Dst, ":")
		if !found {
			continue
		}

		findings.AddIOC(ip, fmt.Sprintf("port:%s", port), "tcp")
	}

	for _, request := range report.Network.Requests {
		if request.DNSRequest != nil && len(request.DNSRequest.Domains) != 0 {
			findings.AddIOC(request.DNSRequest.Domains[0], "dns_request")
		}

		if request.HTTPRequest != nil {
			findings.AddIOC(request.HTTPRequest.URL, "http_request")
		}
	}

	if t.options.CollectDropfiles {
		if err := t.collectDroppedFiles(ctx, id, taskName, report.Dumped, findings, storage); err != nil {
			return err
		}
	}

	if t.options.CollectMemdumps {
		if err := t.collectMemoryDumps(ctx, id, taskName, report.Dumped, findings, storage); err != nil {
			return err
		}
	}

	if t.options.CollectPcaps {
		data, err := t.downloadTaskFile(ctx, id, taskName, pcapName)
		if err != nil {
			return err
		}

		path := common.DerivedFilename("triage_pcap")
		if err := writeArtifact(storage, path, data); err != nil {
			return err
		}

		findings.RegisterFile("pcap", path)
	}

	return nil
}

func (t *TriageSandbox) collectDroppedFiles(ctx context.Context, id, taskName string, dumped []adapterentities.TriageDumped,
	findings *entities.Findings, storage out.LocalStorage,
) error {
	for _, item := range dumped {
		if item.Kind != "martian" {
			continue
		}

		data, err := t.downloadTaskFile(ctx, id, taskName, item.Name)
		if err != nil {
			return err
		}

		path := common.DerivedFilename("triage_dropped_file")
		if err := writeArtifact(storage, path, data); err != nil {
			return err
		}

		findings.RegisterFile("dropped_file", path)

		// Only native binaries are worth another round through the pipeline.
		if fileutils.IsNativeExecutable(bytes.NewReader(data)) {
			findings.AddExtractedFile(path, true)
		}
	}

	return nil
}

func (t *TriageSandbox) collectMemoryDumps(ctx context.Context, id, taskName string, dumped []adapterentities.TriageDumped,
	findings *entities.Findings, storage out.LocalStorage,
) error {
	for _, item := range dumped {
		if item.Kind != "mapping" && item.Kind != "region" {
			continue
		}

		data, err := t.downloadTaskFile(ctx, id, taskName, item.Name)
		if err != nil {
			return err
		}

		path := common.DerivedFilename("triage_memory_dump")
		if err := writeArtifact(storage, path, data); err != nil {
			return err
		}

		findings.RegisterFile("memory_dump", path)
	}

	return nil
}

func (t *TriageSandbox) downloadTaskFile(ctx context.Context, id, taskName, name string) ([]byte, error) {
	if !t.rateLimiter.IsRequestAllowed() {
		return nil, fmt.Errorf("too many requests for triage")
	}

	fileURL := common.JoinURL(t.options.APIEndpoint, "samples", id, taskName, "files", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for triage. %w", err)
	}

	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", t.options.APIKey))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to triage failed. %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to triage failed with status %v", res.StatusCode)
	}

	return io.ReadAll(res.Body)
}

func (t *TriageSandbox) getJSON(ctx context.Context, requestURL string, result any) error {
	if !t.rateLimiter.IsRequestAllowed() {
		return fmt.Errorf("too many requests for triage")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to encode request for triage. %w", err)
	}

	return t.doJSON(req, result)
}

func (t *TriageSandbox) doJSON(req *http.Request, result any) error {
	req.Header.Add("accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", t.options.APIKey))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to triage failed. %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("request to triage failed with status %v", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode triage response. %w", err)
	}

	return nil
}

func writeArtifact(storage out.LocalStorage, path string, data []byte) error {
	file, err := storage.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(data)

	return err
}
