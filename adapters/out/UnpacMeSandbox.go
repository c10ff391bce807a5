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
	"strings"

	adapterentities "malrelay/adapters/entities"
	"malrelay/common"
	"malrelay/domain/entities"
	"malrelay/domain/ports/out"
)

const unpacmeStatusComplete = "complete"

// UnpacMeOptions configures the UnpacMe adapter. The service only takes
// native executables; URL submissions are rejected.
type UnpacMeOptions struct {
	APIEndpoint     string
	WebEndpoint     string
	APIKey          string
	CollectUnpacked bool
}

type UnpacMeSandbox struct {
	options     UnpacMeOptions
	rateLimiter common.RateLimiter
}

func NewUnpacMeSandbox(options UnpacMeOptions, rateLimiter common.RateLimiter) *UnpacMeSandbox {
	return &UnpacMeSandbox{options: options, rateLimiter: rateLimiter}
}

func (u *UnpacMeSandbox) Name() string {
	return "unpacme"
}

func (u *UnpacMeSandbox) IsAvailable() bool {
	return u.options.APIKey != ""
}

func (u *UnpacMeSandbox) Search(ctx context.Context, sha256 string) (string, error) {
	var result adapterentities.UnpacMeSearchResult
	if err := u.getJSON(ctx, common.JoinURL(u.options.APIEndpoint, "search", "hash", sha256), &result); err != nil {
		return "", err
	}

	if len(result.Results) == 0 {
		return "", out.ErrNoExistingAnalysis
	}

	return result.Results[0].SubmissionID, nil
}

func (u *UnpacMeSandbox) SubmitFile(ctx context.Context, filename string, data []byte) (string, error) {
	if !u.rateLimiter.IsRequestAllowed() {
		return "", fmt.Errorf("too many requests for unpacme")
	}

	bodyRequest := new(bytes.Buffer)
	writer := multipart.NewWriter(bodyRequest)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to encode body request for unpacme. %w", err)
	}

	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to prepare body request for unpacme. %w", err)
	}

	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, common.JoinURL(u.options.APIEndpoint, "upload"), bodyRequest)
	if err != nil {
		return "", fmt.Errorf("failed to encode request for unpacme. %w", err)
	}

	req.Header.Add("Content-Type", writer.FormDataContentType())

	var submission adapterentities.UnpacMeSubmission
	if err := u.doJSON(req, &submission); err != nil {
		return "", err
	}

	return submission.ID, nil
}

func (u *UnpacMeSandbox) SubmitURL(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("unpacme only analyzes executables, not urls")
}

func (u *UnpacMeSandbox) Status(ctx context.Context, id string) (entities.AnalysisStatus, error) {
	var status adapterentities.UnpacMeStatus
	if err := u.getJSON(ctx, common.JoinURL(u.options.APIEndpoint, "status", id), &status); err != nil {
		return entities.StatusPending, err
	}

	if status.Status == unpacmeStatusComplete {
		return entities.StatusComplete, nil
	}

	return entities.StatusPending, nil
}

func (u *UnpacMeSandbox) Report(ctx context.Context, id string, findings *entities.Findings, storage out.LocalStorage) error {
	var results adapterentities.UnpacMeResults
	if err := u.getJSON(ctx, common.JoinURL(u.options.APIEndpoint, "results", id), &results); err != nil {
		return err
	}

	unpacked := make(map[string]interface{}, len(results.Results))

	for _, item := range results.Results {
		names := make([]string, 0, len(item.MalwareID)+len(item.DetectIt))

		for _, malware := range item.MalwareID {
			findings.AddProbableName(strings.ToLower(malware.Name))
			findings.AddTag(strings.ToLower(malware.Name))
			names = append(names, malware.Name)
		}

		for _, detection := range item.DetectIt {
			findings.AddSignature(entities.Signature{Name: detection.Name})
			names = append(names, detection.Name)
		}

		unpacked[item.Hashes.Sha256] = names

		if u.options.CollectUnpacked {
			if err := u.collectUnpackedExecutable(ctx, item.Hashes.Sha256, findings, storage); err != nil {
				return err
			}
		}
	}

	if len(unpacked) != 0 {
		findings.AddExtraction("unpacked executables", unpacked)
	}

	return nil
}

func (u *UnpacMeSandbox) ReportURL(id string) string {
	return common.JoinURL(u.options.WebEndpoint, id)
}

func (u *UnpacMeSandbox) collectUnpackedExecutable(ctx context.Context, sha256 string, findings *entities.Findings, storage out.LocalStorage) error {
	if !u.rateLimiter.IsRequestAllowed() {
		return fmt.Errorf("too many requests for unpacme")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, common.JoinURL(u.options.APIEndpoint, "download", sha256), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to encode request for unpacme. %w", err)
	}

	req.Header.Add("Authorization", fmt.Sprintf("Key %s", u.options.APIKey))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to unpacme failed. %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("request to unpacme failed with status %v", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	path := common.DerivedFilename("unpacme_unpacked_executable")
	if err := writeArtifact(storage, path, data); err != nil {
		return err
	}

	findings.RegisterFile("unpacked_executable", path)

	return nil
}

func (u *UnpacMeSandbox) getJSON(ctx context.Context, requestURL string, result any) error {
	if !u.rateLimiter.IsRequestAllowed() {
		return fmt.Errorf("too many requests for unpacme")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to encode request for unpacme. %w", err)
	}

	return u.doJSON(req, result)
}

func (u *UnpacMeSandbox) doJSON(req *http.Request, result any) error {
	req.Header.Add("accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Key %s", u.options.APIKey))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to unpacme failed. %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("request to unpacme failed with status %v", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode unpacme response. %w", err)
	}

	return nil
}
