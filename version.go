package deckflow

import _ "embed"

// Version is the release of the deckflow module.
//
//go:embed VERSION
var Version string
