package models

import "errors"

var (
	// ErrInvalidContract reports bad economic parameters on a contract.
	ErrInvalidContract = errors.New("invalid contract")

	// ErrInvalidConfig reports bad model configuration: step counts,
	// path counts, brackets, iteration or tolerance bounds.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidModelSelection reports an unknown model or option style name.
	ErrInvalidModelSelection = errors.New("invalid model selection")
)
