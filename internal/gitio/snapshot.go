// Package gitio implements the engine's durable I/O layer: named
// locks, a bounded worker pool, the append-only receipt/metrics log,
// and the previous-graph-snapshot loader (spec §5, §4.8).
package gitio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/knowledgehooks/khook/internal/rdf"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// PreviousGraphLoader resolves the previous-snapshot graph the engine
// decided to source from git history (spec §9 Open Question: "the
// source's previous graph loader is a stub; a conforming
// implementation must decide whether previous state comes from a
// prior snapshot file or from a VCS-integrated source"). It reads the
// graph directory's state as of the repository's last commit, which
// the current working tree is being evaluated against.
type PreviousGraphLoader struct {
	repoPath string
	graphDir string
}

// NewPreviousGraphLoader builds a loader rooted at repoPath (the git
// repository containing graphDir). graphDir is relative to repoPath.
func NewPreviousGraphLoader(repoPath, graphDir string) *PreviousGraphLoader {
	return &PreviousGraphLoader{repoPath: repoPath, graphDir: graphDir}
}

// Load returns the triples recorded in the graph directory as of
// HEAD. If repoPath is not a git repository, or HEAD has no commits
// yet, it returns (nil, nil): the caller treats an absent previous
// graph as "no previous snapshot" rather than an error (spec §4.2
// ResultDelta: "fires also when previous graph is absent").
func (l *PreviousGraphLoader) Load() ([]rdf.Triple, error) {
	repo, err := git.PlainOpen(l.repoPath)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil, nil
		}
		return nil, khookerrors.NewIoFailure("open git repository at "+l.repoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, nil
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, khookerrors.NewIoFailure("resolve HEAD commit", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, khookerrors.NewIoFailure("resolve HEAD tree", err)
	}

	sub, err := tree.Tree(filepath.ToSlash(l.graphDir))
	if err != nil {
		if err == object.ErrDirectoryNotFound || err == object.ErrEntryNotFound {
			return nil, nil
		}
		return nil, khookerrors.NewIoFailure("resolve graph directory tree", err)
	}

	var triples []rdf.Triple
	walkErr := sub.Files().ForEach(func(f *object.File) error {
		ext := filepath.Ext(f.Name)
		if ext != ".ttl" && ext != ".nt" {
			return nil
		}
		r, err := f.Reader()
		if err != nil {
			return fmt.Errorf("open %s at HEAD: %w", f.Name, err)
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("read %s at HEAD: %w", f.Name, err)
		}

		decoded, err := decodeByExt(ext, string(data))
		if err != nil {
			// Matches the live loader's skip-and-continue policy for a
			// single malformed file (spec §4.1): previous-snapshot
			// loading should not fail the whole run over one bad file.
			return nil
		}
		triples = append(triples, decoded...)
		return nil
	})
	if walkErr != nil {
		return nil, khookerrors.NewIoFailure("walk graph directory at HEAD", walkErr)
	}

	return triples, nil
}

func decodeByExt(ext, data string) ([]rdf.Triple, error) {
	switch ext {
	case ".ttl":
		return rdf.DecodeTurtle(data)
	case ".nt":
		return rdf.DecodeNTriples(strings.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
}
