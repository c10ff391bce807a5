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
	"context"
	"encoding/json"
	"fmt"
	adapterentities "malrelay/adapters/entities"
	"malrelay/domain/entities"
	"malrelay/domain/ports/out"
	"malrelay/fileutils"
	"malrelay/logging"
	"malrelay/pkg/awsutils"
	"strings"

	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/google/uuid"
	"github.com/uber-go/tally/v4"
)

const (
	consumeCount     = "consume_count"
	singleMessageInc = 1
)

type QueueController struct {
	outputChannel       chan *entities.AnalysisRequest
	localStorageFactory out.LocalStorageFactory

	sqsService awsutils.SQS
	queue      string

	logger       logging.Logger
	metricsScope tally.Scope
}

func NewQueueController(queue string, localStorageFactory out.LocalStorageFactory, outputChannel chan *entities.AnalysisRequest, sqsService awsutils.SQS, metricsScope tally.Scope, logger logging.Logger) QueueController {
	return QueueController{queue: queue, localStorageFactory: localStorageFactory, outputChannel: outputChannel, sqsService: sqsService, logger: logger, metricsScope: metricsScope}
}

// AsyncAnalyze consumes S3 object-created events and schedules one analysis
// per created object.
func (q *QueueController) AsyncAnalyze(ctx context.Context) {
	if q.queue == "" {
		q.logger.Infow("Won't attempt to read SQS queue, because none was configured")
		return
	}

	q.logger.Infow("Start of async queue processing")

	for {
		select {
		case <-ctx.Done():
			q.logger.Infow("End of async queue processing")
			return

		default:
			messages, err := q.sqsService.ReceiveMessageFromSQS(q.queue)
			if err != nil {
				q.logger.Errorw("failed to obtain analysis request", "error", err)
				continue
			}

			for _, m := range messages {
				events, err := q.extractEvents(m)
				if err != nil {
					q.logger.Errorw("failed to extract events", "error", err)
					continue
				}

				for _, event := range events {
					q.submitSingleObjectForAnalysis(event, *m.ReceiptHandle)
				}
			}
		}
	}
}

func (q *QueueController) extractEvents(m *sqs.Message) ([]adapterentities.S3Event, error) {
	var notification adapterentities.SQSNotification

	err := json.Unmarshal([]byte(*m.Body), &notification)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal message. %w", err)
	}

	var events adapterentities.Events
	if err = json.Unmarshal([]byte(notification.Message), &events); err != nil {
		// Events arrive without the SNS envelope when delivered straight
		// from the bucket notification.
		err = json.Unmarshal([]byte(*m.Body), &events)
	}

	// Message could not be decoded, remove it so it stops poisoning the
	// queue.
	if err != nil {
		q.logger.Errorw("failed to unmarshal message.", "error", err, "message field", notification.Message, "message", m)

		if err := q.sqsService.DeleteMessageFromSQS(q.queue, *m.ReceiptHandle); err != nil {
			q.logger.Errorw("deleting invalid message from sqs service failed", "error", err, "message", m)
		}

		return nil, err
	}

	return events.Record, nil
}

func (q *QueueController) submitSingleObjectForAnalysis(event adapterentities.S3Event, messageID string) {
	if !strings.HasPrefix(event.EventName, "ObjectCreated:") {
		return
	}

	q.logger.Debugw("Received new request", "region", event.AwsRegion, "bucket", event.S3.Bucket.Name, "key", event.S3.Object.Key, "size", event.S3.Object.Size)

	uniqueUUID, err := uuid.NewRandom()
	if err != nil {
		q.logger.Errorw("Failed to generate analysis id", "error", err, "region", event.AwsRegion, "bucket", event.S3.Bucket.Name, "key", event.S3.Object.Key)
		return
	}

	storage, err := q.localStorageFactory.GetLocalStorage(event.S3.Object.Size, fileutils.IsCompressed(event.S3.Object.Key))
	if err != nil {
		q.logger.Errorw("Failed to create storage for request", "error", err, "region", event.AwsRegion, "bucket", event.S3.Bucket.Name, "key", event.S3.Object.Key, "size", event.S3.Object.Size)
		return
	}

	q.outputChannel <- &entities.AnalysisRequest{
		AnalysisID:  uniqueUUID.String(),
		StorageType: "s3",
		StorageID:   storage.GetID(),
		Key:         event.S3.Object.Key,
		Bucket:      event.S3.Bucket.Name,
		Size:        event.S3.Object.Size,
		MessageID:   messageID,
	}

	q.metricsScope.Counter(consumeCount).Inc(singleMessageInc)
}
