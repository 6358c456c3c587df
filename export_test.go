package ezcoin

// CachedIdentities exposes the identity cache size to tests.
func CachedIdentities(l *Ledger) int { return l.cachedIdentities() }
