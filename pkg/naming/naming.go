// Package naming derives deterministic file names for presentation artifacts.
package naming

import (
	"strconv"
	"strings"

	"github.com/aretw0/deckflow/pkg/domain"
)

// Extension is the document extension appended to every artifact name.
const Extension = ".html"

const (
	versionTag    = "_v"
	pathSeparator = "_"
	stepSeparator = "-"
)

// Linear names the artifact of one path: {workflow}_v{version}_{id1}-{id2}-...-{idN}.html.
// Distinct paths of distinct step IDs always produce distinct names.
func Linear(workflow string, version int, path domain.Path) string {
	return LinearStem(workflow, version, path) + Extension
}

// LinearStem is Linear without the extension.
func LinearStem(workflow string, version int, path domain.Path) string {
	base := GraphStem(workflow, version)
	if len(path) == 0 {
		return base
	}
	return base + pathSeparator + strings.Join(path, stepSeparator)
}

// Graph names the single artifact of a workflow: {workflow}_v{version}.html.
func Graph(workflow string, version int) string {
	return GraphStem(workflow, version) + Extension
}

// GraphStem is Graph without the extension.
func GraphStem(workflow string, version int) string {
	return workflow + versionTag + strconv.Itoa(version)
}

// Stem strips Extension from a file name, if present.
func Stem(fileName string) string {
	return strings.TrimSuffix(fileName, Extension)
}
