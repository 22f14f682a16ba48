package types

import "errors"

var (
	// ErrConfig marks fatal startup conditions such as a missing credential.
	ErrConfig = errors.New("config error")
	// ErrUnknownSymbol is returned by price sources for symbols outside the static mapping.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrPriceFetch wraps any other price source fault. Callers retry later.
	ErrPriceFetch = errors.New("price fetch failed")
	// ErrAdvisory wraps transport, auth and service faults of the advisory call.
	ErrAdvisory = errors.New("advisory call failed")
)
