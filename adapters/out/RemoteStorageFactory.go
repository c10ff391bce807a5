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
	"fmt"

	"malrelay/domain/ports/out"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

type RemoteStorageFactory struct {
	storages map[string]out.RemoteStorage
}

func NewRemoteStorageFactory(awsSession *session.Session, awsConfig *aws.Config) *RemoteStorageFactory {
	factory := &RemoteStorageFactory{
		storages: make(map[string]out.RemoteStorage),
	}
	factory.storages["s3"] = NewS3Storage(awsSession, awsConfig)

	return factory
}

func (r *RemoteStorageFactory) GetRemoteStorage(storageType string) (out.RemoteStorage, error) {
	if storage, ok := r.storages[storageType]; ok {
		return storage, nil
	}

	return nil, fmt.Errorf("there is no such storage type %s", storageType)
}
