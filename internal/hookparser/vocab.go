// Package hookparser materialises hook.Hook records out of an
// internal/graphstore.Store by walking the fixed RDF vocabulary
// described in the hook engine's external interface contract.
package hookparser

// Namespace roots. The engine recognises these IRIs verbatim; the
// abbreviated prefixes below (gh:, op:, gv:, dct:) exist only in this
// file's identifier names, never in parsed data.
const (
	nsGH  = "http://knowledgehooks.org/ns/gh#"
	nsOP  = "http://knowledgehooks.org/ns/op#"
	nsGV  = "http://knowledgehooks.org/ns/gv#"
	nsDCT = "http://purl.org/dc/terms/"
)

// Classes.
const (
	classHook                    = nsGH + "Hook"
	classASKPredicate            = nsGH + "ASKPredicate"
	classSELECTThresholdPredicate = nsGH + "SELECTThresholdPredicate"
	classResultDeltaPredicate    = nsGH + "ResultDeltaPredicate"
	classSHACLPredicate          = nsGH + "SHACLPredicate"
	classConstructPredicate      = nsGH + "ConstructPredicate"
	classPipeline                = nsOP + "Pipeline"
	classSparqlStep              = nsGV + "SparqlStep"
	classTemplateStep            = nsGV + "TemplateStep"
	classFileStep                = nsGV + "FileStep"
	classCliStep                 = nsGV + "CliStep"
	classHttpStep                = nsGV + "HttpStep"
	classOutputStep              = nsGV + "OutputStep"
	classRepoStep                = nsGV + "RepoStep"
)

// Properties.
const (
	propHasPredicate     = nsGH + "hasPredicate"
	propOrderedPipelines = nsGH + "orderedPipelines"
	propSteps            = nsOP + "steps"
	propQueryText        = nsGH + "queryText"
	propThreshold        = nsGH + "threshold"
	propOperator         = nsGH + "operator"
	propText             = nsGV + "text"
	propFilePath         = nsGV + "filePath"
	propOperation        = nsGV + "operation"
	propContent          = nsGV + "content"
	propCommand          = nsGV + "command"
	propURL              = nsGV + "url"
	propMethod           = nsGV + "method"
	propHeaders          = nsGV + "headers"
	propOutputMapping    = nsGV + "outputMapping"
	propDependsOn        = nsGV + "dependsOn"
	propTitle            = nsDCT + "title"

	// Extensions beyond the bit-exact vocabulary, needed to round-trip
	// fields the spec's data model requires but the external interface
	// section leaves implicit (tags, version, description, id, output
	// path, format, body path, timeout, shapes document).
	propTag            = nsGH + "tag"
	propVersion        = nsGH + "version"
	propDescription    = nsGH + "description"
	propStepID         = nsOP + "stepId"
	propOutputPath     = nsGV + "outputPath"
	propBodyPath       = nsGV + "bodyPath"
	propFormat         = nsGV + "format"
	propTimeoutMs      = nsGV + "timeoutMs"
	propShapesDoc      = nsGH + "shapesDoc"
	propRepoPath       = nsGV + "repoPath"
)
