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

package in

import (
	adapterentities "malrelay/adapters/entities"
	"malrelay/domain/ports/out"
	"malrelay/domain/services"
	"malrelay/logging"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AnalysisController struct {
	validate         *validator.Validate
	schedulerService services.Scheduler
	repository       out.FindingsRepository
	logger           logging.Logger
}

func NewAnalysisController(schedulerService services.Scheduler, repository out.FindingsRepository, logger logging.Logger) AnalysisController {
	return AnalysisController{schedulerService: schedulerService, repository: repository, logger: logger, validate: validator.New()}
}

// AnalyzeFile schedules an uploaded file for analysis.
func (a *AnalysisController) AnalyzeFile(c *fiber.Ctx) error {
	resp := adapterentities.ScheduleResponse{}

	file, err := c.FormFile("file")
	if err != nil {
		a.logger.Errorw("no file found", "error", err)
		resp.Error = "no file found"

		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	tempFile, err := file.Open()
	if err != nil {
		a.logger.Errorw("failed to open file", "error", err)
		resp.Error = "failed to open file"

		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	defer tempFile.Close()

	analysisID, err := a.schedulerService.ScheduleFile(file.Filename, tempFile, uint64(file.Size))
	if err != nil {
		a.logger.Errorw("failed to schedule file for analysis", "error", err, "filename", file.Filename, "filesize", file.Size)
		resp.Error = "could not schedule file for analysis"

		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	resp.ID = analysisID

	return c.Status(fiber.StatusOK).JSON(resp)
}

// AnalyzeURL schedules a url for detonation on the sandboxes that accept
// urls.
func (a *AnalysisController) AnalyzeURL(c *fiber.Ctx) error {
	response := adapterentities.ScheduleResponse{}
	request := &adapterentities.RequestURLAnalysis{}

	if err := c.BodyParser(request); err != nil {
		a.logger.Errorw("Could not parse request", "error", err, "request", request)
		response.Error = err.Error()

		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	if err := a.validate.Struct(request); err != nil {
		a.logger.Errorw("Some field is missing", "error", err)
		response.Error = err.Error()

		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	analysisID, err := a.schedulerService.ScheduleURL(request.URL)
	if err != nil {
		a.logger.Errorw("failed to schedule url for analysis", "error", err, "url", request.URL)
		response.Error = "could not schedule url for analysis"

		return c.Status(fiber.StatusInternalServerError).JSON(response)
	}

	response.ID = analysisID

	return c.Status(fiber.StatusOK).JSON(response)
}

// AnalyzeObject schedules an object already sitting in a bucket.
func (a *AnalysisController) AnalyzeObject(c *fiber.Ctx) error {
	response := adapterentities.ScheduleResponse{}
	request := &adapterentities.RequestObjectAnalysis{}

	if err := c.BodyParser(request); err != nil {
		a.logger.Errorw("Could not parse request", "error", err, "request", request)
		response.Error = err.Error()

		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	if err := a.validate.Struct(request); err != nil {
		a.logger.Errorw("Some field is missing", "error", err)
		response.Error = err.Error()

		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	analysisID, err := a.schedulerService.ScheduleObject(request.Bucket, request.Key)
	if err != nil {
		a.logger.Errorw("failed to schedule object for analysis", "error", err, "bucket", request.Bucket, "key", request.Key)
		response.Error = "could not schedule object for analysis"

		return c.Status(fiber.StatusInternalServerError).JSON(response)
	}

	response.ID = analysisID

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetAnalysis returns the aggregated module results of one analysis. An
// analysis no module has reported on yet comes back with an empty module
// map.
func (a *AnalysisController) GetAnalysis(c *fiber.Ctx) error {
	response := adapterentities.AnalysisResponse{}

	analysisID := c.Params("id")
	if analysisID == "" {
		response.Error = "missing analysis id"
		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	record, err := a.repository.Get(analysisID)
	if err != nil {
		a.logger.Errorw("failed to fetch analysis record", "error", err, "analysis_id", analysisID)
		response.Error = "could not fetch analysis record"

		return c.Status(fiber.StatusInternalServerError).JSON(response)
	}

	return c.Status(fiber.StatusOK).JSON(adapterentities.MapRecordToAnalysisResponse(record))
}
