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
	"sync"

	"malrelay/domain/ports/out"

	"github.com/spf13/afero"
)

const (
	maxSizeForMemory     = 1 * 1024 * 1024
	EnforceDiskSize      = maxSizeForMemory + 1
	noStorageConsumption = 0
)

type LocalStorageFactory struct {
	storage             map[string]out.LocalStorage
	storageUsage        map[string]int64
	maxStorageUsage     int64
	currentStorageUsage int64
	lock                sync.RWMutex
}

func NewLocalStorageFactory(maxStorageUsage int64) *LocalStorageFactory {
	return &LocalStorageFactory{maxStorageUsage: maxStorageUsage, storage: make(map[string]out.LocalStorage), storageUsage: make(map[string]int64)}
}

// GetLocalStorage creates a fresh scoped storage. Small plain files stay in
// memory; anything big or compressed goes to disk, since archives can
// expand well past their transport size.
func (l *LocalStorageFactory) GetLocalStorage(filesize uint64, compressed bool) (out.LocalStorage, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	var storage out.LocalStorage
	var err error

	if filesize <= maxSizeForMemory && !compressed {
		storage, err = NewLocalStorageFS(afero.NewMemMapFs(), l.changeFSUsage)
	} else {
		storage, err = NewLocalStorageFS(afero.NewOsFs(), l.changeFSUsage)
	}

	if err != nil {
		return nil, err
	}

	storageID := storage.GetID()
	l.storage[storageID] = storage
	l.storageUsage[storageID] = noStorageConsumption

	return l.storage[storageID], nil
}

func (l *LocalStorageFactory) changeFSUsage(storageID string, delta int64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if _, ok := l.storageUsage[storageID]; !ok {
		return fmt.Errorf("storage not found")
	}

	if l.currentStorageUsage+delta > l.maxStorageUsage {
		return fmt.Errorf("max memory consumed")
	}

	l.currentStorageUsage += delta
	l.storageUsage[storageID] += delta

	return nil
}

func (l *LocalStorageFactory) DestroyStorage(storageID string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	storage, ok := l.storage[storageID]
	if !ok {
		return fmt.Errorf("storage not found")
	}

	delete(l.storage, storageID)

	if err := storage.Destroy(); err != nil {
		return err
	}

	if _, ok := l.storageUsage[storageID]; !ok {
		return fmt.Errorf("storage usage not found")
	}

	l.currentStorageUsage -= l.storageUsage[storageID]
	delete(l.storageUsage, storageID)

	return nil
}

func (l *LocalStorageFactory) GetStorageFromID(storageID string) (out.LocalStorage, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if storage, ok := l.storage[storageID]; ok {
		return storage, nil
	}

	return nil, fmt.Errorf("storage not found")
}
