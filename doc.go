/*
Package deckflow turns a branching workflow into versioned slide presentations.

A workflow is a directed graph of steps. Every step owns a series of authored
slide versions, and a presentation is assembled for a requested version by
taking, for each step, the nearest version at or below it.

# Generation Modes

Linear generation renders one presentation per entry-to-terminal path, named
{workflow}_v{version}_{id1}-{id2}-...-{idN}.html. Paths are independent: a step
missing content fails only the presentations that walk through it.

Graph generation renders a single presentation, {workflow}_v{version}.html,
holding every step with links to its successors, so the viewer chooses which
branch to follow.

# Usage

By default the engine reads "workflow.yaml" and the "slides" directory of a
project, and writes HTML decks:

	eng, err := deckflow.New("./onboarding")
	if err != nil {
		log.Fatal(err)
	}

	summary, err := eng.GenerateLinear(ctx, 2, "./out")
	if err != nil {
		log.Fatal(err)
	}
	for _, o := range summary.Failed() {
		log.Printf("%s: %v", o.Artifact, o.Err)
	}

Every collaborator can be replaced with options: WithGraph or WithLoader for
the workflow, WithContentStore for slide content (Loam, Redis, memory, or the
caching decorator), and WithRenderer for the output format.
*/
package deckflow
