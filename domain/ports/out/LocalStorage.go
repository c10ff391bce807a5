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

import "github.com/spf13/afero"

// LocalStorage is a per-invocation sandboxed filesystem. Everything a module
// writes (sample bytes, derived artifacts, extracted members) lives here
// until the cleanup stage destroys the whole storage.
type LocalStorage interface {
	afero.Fs
	GetID() string
	ListFiles(path string) ([]string, error)
	Size(path string) (int64, error)
	Exists(path string) (bool, error)
	Destroy() error
}

type LocalStorageFactory interface {
	GetLocalStorage(filesize uint64, compressed bool) (LocalStorage, error)
	GetStorageFromID(storageID string) (LocalStorage, error)
	DestroyStorage(storageID string) error
}
