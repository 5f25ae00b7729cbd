/*
Package dsl provides a Go DSL for programmatically constructing workflow graphs.

It is an alternative to YAML workflow files, useful for generated workflows
and unit tests.

Example usage:

	b := dsl.New("Onboarding")

	b.Add("A").Title("Welcome").Go("B", "C")
	b.Add("B").Go("D")
	b.Add("C").Go("D")
	b.Add("D").Terminal()

	graph, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
*/
package dsl
