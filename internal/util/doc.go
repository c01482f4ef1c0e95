// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the storage and session
// packages: display-width string truncation and collision-free file
// creation for timestamped artifacts.
package util
