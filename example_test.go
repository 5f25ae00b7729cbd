package deckflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/deckflow"
	"github.com/aretw0/deckflow/pkg/adapters/memory"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/dsl"
)

// ExampleNew_library demonstrates how to use deckflow purely as a Go library,
// injecting the workflow and its content without reading from the filesystem.
func ExampleNew_library() {
	// 1. Define the workflow with the dsl builder
	b := dsl.New("Onboarding")
	b.Add("A").Go("B", "C")
	b.Add("B").Go("D")
	b.Add("C").Go("D")
	b.Add("D")
	g := b.MustBuild()

	// 2. Author slide versions
	store, err := memory.NewFromSlides(
		domain.Slide{StepID: "A", Version: 1},
		domain.Slide{StepID: "A", Version: 2},
		domain.Slide{StepID: "B", Version: 1},
		domain.Slide{StepID: "C", Version: 2},
		domain.Slide{StepID: "D", Version: 0},
	)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Initialize the Engine; no project path is needed
	renderer := memory.NewRenderer()
	eng, err := deckflow.New("",
		deckflow.WithGraph(g),
		deckflow.WithContentStore(store),
		deckflow.WithRenderer(renderer),
	)
	if err != nil {
		log.Fatal(err)
	}

	// 4. Generate one deck per path
	summary, err := eng.GenerateLinear(context.Background(), 2, "out")
	if err != nil {
		log.Fatal(err)
	}

	for _, o := range summary.Outcomes {
		fmt.Println(o.Artifact, o.OK())
	}

	// Output:
	// Onboarding_v2_A-B-D.html true
	// Onboarding_v2_A-C-D.html true
}
