/*
Package domain contains the core models of deckflow.

It defines the workflow graph, the paths walked through it and the artifacts
handed to renderers. The package is pure: no I/O, no persistence, no logging.

# Key Entities

  - Step: A node of the workflow, one slide of content.
  - Graph: The validated, immutable set of steps and their successor links.
  - Path: One entry-to-terminal walk through the graph (see Graph.Paths).
  - Slide: The content of a step at a resolved version.
  - Artifact: A named presentation ready to render.
  - Summary: The per-artifact outcomes of a generation run.
*/
package domain
