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
	"encoding/json"
	"fmt"
	"time"

	"malrelay/common"
	"malrelay/domain/entities"
	"malrelay/domain/ports/out"
	"malrelay/logging"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

const (
	analysisKeyFormat = "analysis/%s"
	lockKeyFormat     = "lock-%s"

	maxSleepForRetry = 30
	lockInterval     = 60 * time.Second
)

type CacheFindingsRepo struct {
	cache     out.Cache
	resultTTL time.Duration
	logger    logging.Logger
}

func NewCacheFindingsRepo(cache out.Cache, resultTTL time.Duration, logger logging.Logger) *CacheFindingsRepo {
	return &CacheFindingsRepo{cache: cache, resultTTL: resultTTL, logger: logger}
}

// SaveModuleResult folds one module outcome into the stored record for its
// analysis. The read-merge-write runs under a per-analysis lock so modules
// finishing concurrently don't drop each other's findings.
func (c *CacheFindingsRepo) SaveModuleResult(result entities.AnalysisResult) error {
	c.lock(result.AnalysisID)
	defer c.unlock(result.AnalysisID)

	record, err := c.getRecord(result.AnalysisID)
	if err != nil {
		return err
	}

	record.Merge(result)

	jsonRecord, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return c.cache.Set(c.getItemKey(result.AnalysisID), string(jsonRecord), c.resultTTL)
}

func (c *CacheFindingsRepo) Get(analysisID string) (entities.AnalysisRecord, error) {
	c.lock(analysisID)
	defer c.unlock(analysisID)

	return c.getRecord(analysisID)
}

func (c *CacheFindingsRepo) getRecord(analysisID string) (entities.AnalysisRecord, error) {
	jsonRecord, err := c.cache.Get(c.getItemKey(analysisID))
	if errors.Is(err, redis.Nil) {
		return entities.NewAnalysisRecord(analysisID), nil
	}

	if err != nil {
		return entities.NewAnalysisRecord(analysisID), err
	}

	var record entities.AnalysisRecord
	if err := json.Unmarshal([]byte(jsonRecord), &record); err != nil {
		return entities.NewAnalysisRecord(analysisID), err
	}

	return record, nil
}

func (c *CacheFindingsRepo) getItemKey(analysisID string) string {
	return fmt.Sprintf(analysisKeyFormat, analysisID)
}

func (c *CacheFindingsRepo) lock(key string) {
	lockKey := fmt.Sprintf(lockKeyFormat, key)

	for err := c.cache.Lock(lockKey, lockInterval); err != nil; err = c.cache.Lock(lockKey, lockInterval) {
		time.Sleep(time.Duration(common.RandInt(maxSleepForRetry)) * time.Second)
	}
}

func (c *CacheFindingsRepo) unlock(key string) {
	lockKey := fmt.Sprintf(lockKeyFormat, key)

	if err := c.cache.Unlock(lockKey); err != nil {
		c.logger.Errorw("failed to unlock key for analysis", "error", err, "key", key)
	}
}
