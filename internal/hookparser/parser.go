package hookparser

import (
	"strconv"
	"strings"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	"github.com/knowledgehooks/khook/internal/graphstore"
	"github.com/knowledgehooks/khook/internal/rdf"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// ParseAll materialises every gh:Hook in the store, in ascending
// lexicographic hook-IRI order. Malformed hooks are collected and
// reported alongside the successfully parsed ones rather than
// aborting the run.
func ParseAll(store *graphstore.Store) ([]hook.Hook, []error) {
	ix := buildIndex(store.All())

	var hooks []hook.Hook
	var errs []error

	for _, subj := range ix.subjectsOfType(classHook) {
		h, err := parseHook(ix, subj)
		if err != nil {
			errs = append(errs, khookerrors.NewMalformedHook(subj.Value, err.Error(), err))
			continue
		}
		hooks = append(hooks, h)
	}
	return hooks, errs
}

func parseHook(ix *index, subj rdf.Term) (hook.Hook, error) {
	h := hook.Hook{ID: hook.HookID(subj.Value)}

	if title, ok := ix.one(subj, propTitle); ok {
		h.Title = title.Value
	}
	if version, ok := ix.one(subj, propVersion); ok {
		h.Version = version.Value
	}
	if desc, ok := ix.one(subj, propDescription); ok {
		h.Description = desc.Value
	}
	for _, tag := range ix.all(subj, propTag) {
		h.Tags = append(h.Tags, tag.Value)
	}

	predNode, ok := ix.one(subj, propHasPredicate)
	if !ok {
		return hook.Hook{}, errMissingField("gh:hasPredicate")
	}
	pred, err := parsePredicate(ix, predNode)
	if err != nil {
		return hook.Hook{}, err
	}
	h.Predicate = pred

	pipelineHead, ok := ix.one(subj, propOrderedPipelines)
	if !ok {
		return hook.Hook{}, errMissingField("gh:orderedPipelines")
	}
	pipelineNodes, err := ix.collection(pipelineHead)
	if err != nil {
		return hook.Hook{}, err
	}
	if len(pipelineNodes) == 0 {
		return hook.Hook{}, errMissingField("gh:orderedPipelines (empty)")
	}
	for _, pn := range pipelineNodes {
		p, err := parsePipeline(ix, pn)
		if err != nil {
			return hook.Hook{}, err
		}
		h.Pipelines = append(h.Pipelines, p)
	}

	return h, nil
}

func parsePredicate(ix *index, node rdf.Term) (hook.Predicate, error) {
	class := ix.typeOf(node,
		classASKPredicate, classSELECTThresholdPredicate, classResultDeltaPredicate,
		classSHACLPredicate, classConstructPredicate,
	)
	switch class {
	case classASKPredicate:
		q, ok := ix.one(node, propQueryText)
		if !ok {
			return hook.Predicate{}, errMissingField("gh:queryText")
		}
		return hook.Predicate{Kind: hook.PredicateAsk, Ask: &hook.AskPredicate{Query: q.Value}}, nil

	case classSELECTThresholdPredicate:
		q, ok := ix.one(node, propQueryText)
		if !ok {
			return hook.Predicate{}, errMissingField("gh:queryText")
		}
		thresholdTerm, ok := ix.one(node, propThreshold)
		if !ok {
			return hook.Predicate{}, errMissingField("gh:threshold")
		}
		threshold, err := strconv.ParseFloat(thresholdTerm.Value, 64)
		if err != nil {
			return hook.Predicate{}, errMissingField("gh:threshold (not numeric)")
		}
		opTerm, ok := ix.one(node, propOperator)
		if !ok {
			return hook.Predicate{}, errMissingField("gh:operator")
		}
		op, err := parseThresholdOp(opTerm.Value)
		if err != nil {
			return hook.Predicate{}, err
		}
		return hook.Predicate{
			Kind: hook.PredicateSelectThreshold,
			SelectThreshold: &hook.SelectThresholdPredicate{
				Query: q.Value, Threshold: threshold, Op: op,
			},
		}, nil

	case classResultDeltaPredicate:
		q, ok := ix.one(node, propQueryText)
		if !ok {
			return hook.Predicate{}, errMissingField("gh:queryText")
		}
		return hook.Predicate{Kind: hook.PredicateResultDelta, ResultDelta: &hook.ResultDeltaPredicate{Query: q.Value}}, nil

	case classSHACLPredicate:
		doc, ok := ix.one(node, propShapesDoc)
		if !ok {
			return hook.Predicate{}, errMissingField("gh:shapesDoc")
		}
		return hook.Predicate{Kind: hook.PredicateSHACL, SHACL: &hook.SHACLPredicate{ShapesDoc: doc.Value}}, nil

	case classConstructPredicate:
		q, ok := ix.one(node, propQueryText)
		if !ok {
			return hook.Predicate{}, errMissingField("gh:queryText")
		}
		return hook.Predicate{Kind: hook.PredicateConstruct, Construct: &hook.ConstructPredicate{Query: q.Value}}, nil

	default:
		return hook.Predicate{}, errUnknownType("predicate", node.Value)
	}
}

func parseThresholdOp(lexical string) (hook.ThresholdOp, error) {
	switch strings.TrimSpace(lexical) {
	case ">":
		return hook.OpGT, nil
	case ">=", "≥":
		return hook.OpGE, nil
	case "<":
		return hook.OpLT, nil
	case "<=", "≤":
		return hook.OpLE, nil
	case "=", "==":
		return hook.OpEQ, nil
	case "!=", "≠":
		return hook.OpNE, nil
	default:
		return "", errMissingField("gh:operator (unrecognised: " + lexical + ")")
	}
}

func parsePipeline(ix *index, node rdf.Term) (hook.Pipeline, error) {
	stepsHead, ok := ix.one(node, propSteps)
	if !ok {
		return hook.Pipeline{}, errMissingField("op:steps")
	}
	stepNodes, err := ix.collection(stepsHead)
	if err != nil {
		return hook.Pipeline{}, err
	}
	if len(stepNodes) == 0 {
		return hook.Pipeline{}, errMissingField("op:steps (empty)")
	}

	p := hook.Pipeline{}
	for _, sn := range stepNodes {
		s, err := parseStep(ix, sn)
		if err != nil {
			return hook.Pipeline{}, err
		}
		p.Steps = append(p.Steps, s)
	}
	return p, nil
}

func stepID(ix *index, node rdf.Term) hook.StepID {
	if id, ok := ix.one(node, propStepID); ok {
		return hook.StepID(id.Value)
	}
	return hook.StepID(node.Value)
}

func parseStep(ix *index, node rdf.Term) (hook.Step, error) {
	class := ix.typeOf(node,
		classSparqlStep, classTemplateStep, classFileStep, classCliStep, classHttpStep, classOutputStep, classRepoStep,
	)
	if class == "" {
		return hook.Step{}, errUnknownType("step", node.Value)
	}

	s := hook.Step{ID: stepID(ix, node)}
	for _, dep := range ix.all(node, propDependsOn) {
		s.DependsOn = append(s.DependsOn, hook.StepID(dep.Value))
	}
	for _, m := range ix.all(node, propOutputMapping) {
		ctxVar, jsonPath, ok := strings.Cut(m.Value, "=")
		if !ok {
			continue
		}
		if s.OutputMapping == nil {
			s.OutputMapping = make(map[string]string)
		}
		s.OutputMapping[ctxVar] = jsonPath
	}

	switch class {
	case classSparqlStep:
		q, ok := ix.one(node, propQueryText)
		if !ok {
			return hook.Step{}, errMissingField("gh:queryText")
		}
		s.Kind = hook.StepSparql
		s.Sparql = &hook.SparqlStep{Query: q.Value}

	case classTemplateStep:
		s.Kind = hook.StepTemplate
		tmpl := &hook.TemplateStep{}
		if body, ok := ix.one(node, propText); ok {
			tmpl.Body = body.Value
		}
		if bodyPath, ok := ix.one(node, propBodyPath); ok {
			tmpl.BodyPath = bodyPath.Value
		}
		if tmpl.Body == "" && tmpl.BodyPath == "" {
			return hook.Step{}, errMissingField("gv:text or gv:bodyPath")
		}
		if out, ok := ix.one(node, propOutputPath); ok {
			tmpl.OutputPath = out.Value
		}
		s.Template = tmpl

	case classFileStep:
		path, ok := ix.one(node, propFilePath)
		if !ok {
			return hook.Step{}, errMissingField("gv:filePath")
		}
		opTerm, ok := ix.one(node, propOperation)
		if !ok {
			return hook.Step{}, errMissingField("gv:operation")
		}
		op := hook.FileOperation(opTerm.Value)
		switch op {
		case hook.FileOpCreate, hook.FileOpWrite, hook.FileOpAppend, hook.FileOpDelete:
		default:
			return hook.Step{}, errMissingField("gv:operation (unrecognised: " + opTerm.Value + ")")
		}
		fs := &hook.FileStep{Path: path.Value, Operation: op}
		if content, ok := ix.one(node, propContent); ok {
			fs.Content = content.Value
		}
		s.Kind = hook.StepFile
		s.File = fs

	case classCliStep:
		cmd, ok := ix.one(node, propCommand)
		if !ok {
			return hook.Step{}, errMissingField("gv:command")
		}
		cli := &hook.CliStep{Command: cmd.Value}
		if t, ok := ix.one(node, propTimeoutMs); ok {
			if ms, err := strconv.Atoi(t.Value); err == nil {
				cli.TimeoutMs = ms
			}
		}
		s.Kind = hook.StepCli
		s.Cli = cli

	case classHttpStep:
		url, ok := ix.one(node, propURL)
		if !ok {
			return hook.Step{}, errMissingField("gv:url")
		}
		method, ok := ix.one(node, propMethod)
		if !ok {
			return hook.Step{}, errMissingField("gv:method")
		}
		h := &hook.HttpStep{URL: url.Value, Method: method.Value}
		for _, hdr := range ix.all(node, propHeaders) {
			k, v, ok := strings.Cut(hdr.Value, ":")
			if !ok {
				continue
			}
			if h.Headers == nil {
				h.Headers = make(map[string]string)
			}
			h.Headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		if body, ok := ix.one(node, propContent); ok {
			h.Body = body.Value
		}
		s.Kind = hook.StepHTTP
		s.HTTP = h

	case classOutputStep:
		out := &hook.OutputStep{}
		if tp, ok := ix.one(node, propBodyPath); ok {
			out.TemplatePath = tp.Value
		}
		if body, ok := ix.one(node, propText); ok {
			out.Body = body.Value
		}
		if out.TemplatePath == "" && out.Body == "" {
			return hook.Step{}, errMissingField("gv:bodyPath or gv:text")
		}
		outputPath, ok := ix.one(node, propOutputPath)
		if !ok {
			return hook.Step{}, errMissingField("gv:outputPath")
		}
		out.OutputPath = outputPath.Value
		format := hook.FormatAuto
		if f, ok := ix.one(node, propFormat); ok {
			format = hook.OutputFormat(f.Value)
		}
		out.Format = format
		s.Kind = hook.StepOutput
		s.Output = out

	case classRepoStep:
		path, ok := ix.one(node, propRepoPath)
		if !ok {
			return hook.Step{}, errMissingField("gv:repoPath")
		}
		opTerm, ok := ix.one(node, propOperation)
		if !ok {
			return hook.Step{}, errMissingField("gv:operation")
		}
		op := hook.RepoOperation(opTerm.Value)
		switch op {
		case hook.RepoOpHeadCommit, hook.RepoOpStatus:
		default:
			return hook.Step{}, errMissingField("gv:operation (unrecognised: " + opTerm.Value + ")")
		}
		s.Kind = hook.StepRepo
		s.Repo = &hook.RepoStep{Path: path.Value, Operation: op}

	default:
		return hook.Step{}, errUnknownType("step", node.Value)
	}

	return s, nil
}
