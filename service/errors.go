// Copyright 2025 Docsift Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import "errors"

var (
	// ErrNoDocument is returned when a search is issued before any document
	// has been loaded.
	ErrNoDocument = errors.New("no document loaded")

	// ErrEmptyQuery is returned for queries with no searchable content.
	ErrEmptyQuery = errors.New("query must be non-empty")

	// ErrInvalidCapacity is returned for non-positive cache capacities.
	ErrInvalidCapacity = errors.New("cache capacity must be > 0")
)
