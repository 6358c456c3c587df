package ezcoin

import "github.com/xraph/ezcoin/id"

// ID is the primary identifier type for all EzCoin entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
