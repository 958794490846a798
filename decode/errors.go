// Copyright 2026 The GroupBuilder Authors.
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

package decode

import "github.com/groupbuilder/seatingengine/internal/seatingerrors"

// errNoTableFound fires only if the exactly-one-table-per-session
// constraint was violated by the solved model, which should never happen;
// it is wrapped in ErrInvalidModel rather than panicking so a caller gets a
// typed error instead of a crash.
var errNoTableFound = seatingerrors.ErrInvalidModel.New()
