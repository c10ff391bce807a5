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

package logging

// Logger is the structured logging contract used across the service.
// zap's sugared logger satisfies it directly.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

type discardLog struct{}

// NewDiscardLog returns a logger that drops everything. Used by tests.
func NewDiscardLog() Logger {
	return discardLog{}
}

func (discardLog) Debugw(string, ...interface{}) {}
func (discardLog) Infow(string, ...interface{})  {}
func (discardLog) Warnw(string, ...interface{})  {}
func (discardLog) Errorw(string, ...interface{}) {}
