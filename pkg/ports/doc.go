/*
Package ports defines the driven ports (interfaces) of deckflow.

These interfaces decouple the generation core from the places slide content
comes from and the formats presentations are written in.

# Key Interfaces

  - WorkflowLoader: Supplies the workflow graph (e.g., from a YAML file or the DSL).
  - ContentStore: Lists the content versions of a step and returns slide content.
  - Renderer: Persists one presentation artifact into an output folder.
*/
package ports
