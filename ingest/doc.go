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

// Package ingest turns uploaded files into stored, indexed documents.
//
// An Extractor converts a file of a given format into plain text.
// The package ships extractors for plain text (with encoding fallbacks)
// and DOCX; other formats are rejected with UnsupportedFormatError.
//
// The Pipeline coordinates extraction, storage and corpus index updates.
// Index updates run asynchronously on a worker pool; failures there are
// logged but do not fail the ingestion itself.
package ingest
