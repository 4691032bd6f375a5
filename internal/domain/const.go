package domain

const (
	// Chain constants
	DEFAULT_CHAIN_ID    = "statemine"
	DEFAULT_SS58_PREFIX = 2 // kusama network prefix

	// Id separators
	ID_SEPARATOR        = "-"
	SIDE_SUFFIX_FROM    = "-FROM"
	SIDE_SUFFIX_TO      = "-TO"
	BLOCK_CURSOR_PREFIX = "block_cursor:"
)
