package hookparser

import "fmt"

func errCycle(node string) error {
	return fmt.Errorf("rdf collection at %q contains a cycle", node)
}

func errBrokenCollection(node string) error {
	return fmt.Errorf("rdf collection node %q is missing rdf:first or rdf:rest", node)
}

func errMissingField(field string) error {
	return fmt.Errorf("missing required field %q", field)
}

func errUnknownType(kind, iri string) error {
	return fmt.Errorf("%s %q has no recognised rdf:type", kind, iri)
}
