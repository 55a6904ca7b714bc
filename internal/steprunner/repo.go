package steprunner

import (
	git "github.com/go-git/go-git/v5"
	"github.com/knowledgehooks/khook/internal/domain/hook"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// repoResult is RepoStep's recorded data: the inspected commit hash
// and, for a status check, whether the working tree is clean.
type repoResult struct {
	HeadCommit string `json:"headCommit,omitempty"`
	Clean      bool   `json:"clean,omitempty"`
}

func runRepo(step *hook.RepoStep) (interface{}, error) {
	repo, err := git.PlainOpen(step.Path)
	if err != nil {
		return nil, khookerrors.NewIoFailure("open git repository at "+step.Path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, khookerrors.NewIoFailure("resolve HEAD at "+step.Path, err)
	}

	switch step.Operation {
	case hook.RepoOpHeadCommit:
		return repoResult{HeadCommit: head.Hash().String()}, nil

	case hook.RepoOpStatus:
		wt, err := repo.Worktree()
		if err != nil {
			return nil, khookerrors.NewIoFailure("resolve worktree at "+step.Path, err)
		}
		st, err := wt.Status()
		if err != nil {
			return nil, khookerrors.NewIoFailure("git status at "+step.Path, err)
		}
		return repoResult{HeadCommit: head.Hash().String(), Clean: st.IsClean()}, nil

	default:
		return nil, khookerrors.NewIoFailure("repo step", errUnknownStepKind(string(step.Operation)))
	}
}
