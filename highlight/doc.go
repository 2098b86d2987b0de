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

// Package highlight converts server-reported term matches into disjoint
// highlight ranges over a document and renders them as markup.
//
// The pipeline has three stages:
//   - BuildRanges turns match offsets into clamped half-open byte ranges
//   - Merge sorts the ranges and fuses overlapping or touching ones
//   - Segments / RenderHTML interleave plain and highlighted spans over
//     the original text
//
// When offset data is unusable, FallbackRanges recovers ranges by
// case-insensitive literal substring search against the raw query and the
// same merge and render stages apply. Session owns the current document
// text and highlight state across searches.
//
// The package never fails: malformed matches are skipped, out-of-bounds
// offsets are clamped, and anomalies degrade to a narrower highlight or
// to no highlight at all.
package highlight
