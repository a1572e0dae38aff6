// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package nodestore

//go:generate mockgen -destination=mocks_test.go -package=$GOPACKAGE github.com/kushti/mpt/internal/database Database,Table,WriteBatch
